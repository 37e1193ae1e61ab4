package main

import "github.com/kcartlidge/ruthless/cmd"

func main() {
	cmd.Execute()
}
