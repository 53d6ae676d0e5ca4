package main

import (
	"AlbumGap/cmd"
)

func main() {
	cmd.Execute()
}
