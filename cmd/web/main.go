package main

import "craftfolio_backend/internal/app"

func main() {
	app.Run()
}
