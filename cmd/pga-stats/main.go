package main

import "github.com/akyker20/pga-scraper/internal/cli"

func main() {
	cli.Execute()
}
