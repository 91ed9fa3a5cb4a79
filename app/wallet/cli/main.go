package main

import "github.com/ardanlabs/algoapps/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
