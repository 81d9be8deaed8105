package main

import "github.com/mvp-joe/beancraft/internal/cli"

func main() {
	cli.Execute()
}
