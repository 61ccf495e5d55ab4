// Package main provides the entry point for the PicPyles application.
package main

import (
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"picpyles/internal/app"
	"picpyles/internal/thumbs"
	"picpyles/internal/version"
	"picpyles/ui/mainwindow"
	"picpyles/ui/prefs"
)

const appTitle = "PicPyles"

// thumbnailWorkers bounds concurrent image decodes; thumbnailing is IO and
// CPU heavy but must never starve the render goroutine.
const thumbnailWorkers = 4

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.github.picpyles")
	fyneApp.Settings().SetTheme(&app.PicPylesTheme{})

	pool := thumbs.NewPool(thumbnailWorkers)
	state := app.NewState(pool)
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, state, appPrefs)
	win.SetCloseIntercept(func() {
		win.SaveOnClose()
		fyneApp.Quit()
	})

	// Reopen the last folder, or the one named on the command line.
	folder := appPrefs.String("path")
	if len(os.Args) > 1 {
		folder = os.Args[1]
	}
	if folder != "" {
		win.OpenFolder(folder)
	}

	win.ShowAndRun()
	pool.Close()
}
