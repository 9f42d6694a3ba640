// Package main is the entry point for dfinspect.
package main

import "dfinspect/cmd/dfinspect/cmd"

func main() {
	cmd.Execute()
}
