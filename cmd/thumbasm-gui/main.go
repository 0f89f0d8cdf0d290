// Command thumbasm-gui launches the desktop assemble workbench.
package main

import "github.com/thumbasm/thumbasm/gui"

func main() {
	gui.NewApp().Run()
}
