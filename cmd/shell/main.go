package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"craftfolio_backend/database"
	"craftfolio_backend/internal/config"
	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/gateway/local"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/roleroute"
	"craftfolio_backend/internal/session"
	"craftfolio_backend/internal/viewmodels"
)

// Терминальная оболочка поверх шлюза данных: живой потребитель
// хранилища сессии с файловым кешем. Личность переживает перезапуск
// через session_cache.path из конфига.

// terminalNavigator печатает навигационные решения хранилища
type terminalNavigator struct {
	current roleroute.View
}

func (n *terminalNavigator) CurrentView() roleroute.View { return n.current }

func (n *terminalNavigator) Navigate(target roleroute.View) {
	n.current = target
	fmt.Printf("-> %s\n", target)
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	backend := local.NewBackend(gormDB, local.Options{
		JWTSecret: cfg.JWT.Secret,
		TokenTTL:  time.Duration(cfg.JWT.TTL) * time.Minute,
	})

	cachePath := cfg.SessionCache.Path
	if cachePath == "" {
		cachePath = ".cache/session.json"
	}
	fileCache := session.NewFileCache(cachePath)

	// Сохраненный токен восстанавливает клиент с сессией,
	// иначе стартуем анонимно
	var gw gateway.Gateway = backend.Anonymous()
	if cached, _ := fileCache.Load(); cached != nil && cached.AccessToken != "" {
		if restored, err := backend.WithToken(cached.AccessToken); err == nil {
			gw = restored
		}
	}

	nav := &terminalNavigator{current: roleroute.ViewLanding}
	store := session.NewStore(gw, fileCache, nav)
	defer store.Close()

	unsubscribe := store.Subscribe(func(s session.State) {
		if s.Identity == nil {
			fmt.Println("[session] не залогинен")
			return
		}
		fmt.Printf("[session] %s <%s> (%s, %s)\n",
			s.Identity.FullName, s.Identity.Email, s.Identity.Role, s.Freshness)
	})
	defer unsubscribe()

	ctx := context.Background()
	if err := store.Bootstrap(ctx); err != nil {
		logger.Warn("Сессия не проверилась при старте", "error", err)
	}

	fmt.Println("Команды: signup <email> <пароль> [роль], signin <email> <пароль>,")
	fmt.Println("         whoami, rename <имя>, open <экран>, signout, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s> ", nav.current)
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "signup":
			if len(fields) < 3 {
				fmt.Println("использование: signup <email> <пароль> [роль]")
				continue
			}
			metadata := map[string]string{}
			if len(fields) > 3 {
				metadata["role"] = fields[3]
			}
			if _, err := gw.Auth().SignUp(ctx, fields[1], fields[2], metadata); err != nil {
				fmt.Println("ошибка:", err)
			}

		case "signin":
			if len(fields) < 3 {
				fmt.Println("использование: signin <email> <пароль>")
				continue
			}
			if _, err := gw.Auth().SignIn(ctx, fields[1], fields[2]); err != nil {
				fmt.Println("ошибка:", err)
			}

		case "whoami":
			state := store.Current()
			if state.Identity == nil {
				fmt.Println("не залогинен")
			} else {
				fmt.Printf("%s <%s> роль=%s\n",
					state.Identity.FullName, state.Identity.Email, state.Identity.Role)
			}

		case "rename":
			state := store.Current()
			if state.Identity == nil {
				fmt.Println("сначала залогиньтесь")
				continue
			}
			if len(fields) < 2 {
				fmt.Println("использование: rename <имя>")
				continue
			}
			vm := viewmodels.NewSettingsViewModel(gw, state.Identity.ID)
			saved, err := vm.Save(ctx, map[string]any{
				"full_name": strings.Join(fields[1:], " "),
			})
			vm.Close()
			if err != nil {
				fmt.Println("ошибка:", err)
				continue
			}
			store.ApplyProfile(*saved)

		case "open":
			if len(fields) < 2 {
				fmt.Println("использование: open <экран>")
				continue
			}
			target := roleroute.View(fields[1])
			decision := roleroute.Decide(store.Current().Identity, target)
			if decision.Allowed {
				nav.Navigate(target)
			} else {
				nav.Navigate(decision.RedirectTo)
			}

		case "signout":
			if err := store.SignOut(ctx); err != nil {
				fmt.Println("ошибка:", err)
			}

		case "quit", "exit":
			return

		default:
			fmt.Println("неизвестная команда:", fields[0])
		}
	}
}
