package main

import (
	"github.com/eyeKill/KVBench/cmd/kvbench/cmd"
)

func main() {
	cmd.Execute()
}
