package main

import "become/cmd/become/root"

func main() {
	root.Execute()
}
