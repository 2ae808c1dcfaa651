package main

import "github.com/binhbb2204/manga-catalog/cli"

func main() {
	cli.Execute()
}
