package main

import "github.com/CodeExpert787/VPN-Windows-Mac/cmd/proxyctl/cmd"

func main() {
	cmd.Execute()
}
