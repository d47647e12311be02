package main

import "github.com/oshokin/ctxlog/cmd/ctxlog-demo/cmd"

func main() {
	cmd.Execute()
}
