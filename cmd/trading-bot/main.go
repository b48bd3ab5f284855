package main

import "github.com/EvgeniQwerty/trading-bot/internal/cli"

func main() {
	cli.Execute()
}
