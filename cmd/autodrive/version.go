package main

import "fmt"

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func cmdVersion() {
	fmt.Printf("autodrive version %s\n", version)
}
