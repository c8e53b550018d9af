package main

import "github.com/cmmoran/bindgen/cmd"

func main() {
	cmd.Execute()
}
