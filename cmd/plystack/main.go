// PlyStack searches for the thinnest composite laminate stacking sequence
// that survives a set of structural requirements.
//
// Build:
//
//	go build -o plystack ./cmd/plystack
//
// Examples:
//
//	plystack optimize --nx 400 --nxy 120 --angles 0,45,-45,90 --report panel.pdf
//	plystack compare --pressure 2 --radius 150
//	plystack check --stack 0,45,-45,90 --nx 400
//	plystack materials import catalog.xlsx
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
