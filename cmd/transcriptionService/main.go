package main

import (
	"bitbucket.org/airenas/vidscribe/internal/app/transcription"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	transcription.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
        _     __              _ __
 _   __(_)___/ /__  ______  _(_) /_  ___
| | / / / __  / _ \/ ___/ / / / / __ \/ _ \
| |/ / / /_/ /  __(__  ) /_/ / / /_/ /  __/
|___/_/\__,_/\___/____/\__, /_/_.___/\___/  v: %s
                      /____/
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("bitbucket.org/airenas/vidscribe"))
}
