// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"picpyles/internal/app"
	"picpyles/internal/version"
	"picpyles/ui/canvas"
	"picpyles/ui/prefs"
)

const prefKeyLastFolder = "path"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	view      *canvas.SceneView
	statusBar *widget.Label
}

// New creates the main window over the given application state.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("PicPyles")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  appPrefs,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1024, 680))
	return mw
}

func (mw *MainWindow) setupUI() {
	mw.view = canvas.NewSceneView(mw.state)
	mw.statusBar = widget.NewLabel("No folder open")

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.view,                           // center
	)
	mw.SetContent(content)
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Folder...", mw.onOpenFolder),
		fyne.NewMenuItem("Rescan Folder", mw.onRescan),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Layout", mw.onSaveLayout),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Toggle Viewing Path", mw.onToggleTour),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventFolderOpened, func(data interface{}) {
		path, _ := data.(string)
		mw.statusBar.SetText(path)
		mw.prefs.SetString(prefKeyLastFolder, path)
		if err := mw.prefs.Save(); err != nil {
			log.Printf("Saving preferences failed: %v", err)
		}
	})

	mw.state.On(app.EventSelectionChanged, func(data interface{}) {
		count, _ := data.(int)
		switch {
		case count == 0:
			mw.statusBar.SetText(mw.state.FolderPath())
		case count == 1:
			mw.statusBar.SetText("1 tile selected")
		default:
			mw.statusBar.SetText(fmt.Sprintf("%d tiles selected", count))
		}
	})
}

// OpenFolder loads a folder and reports errors in a dialog.
func (mw *MainWindow) OpenFolder(path string) {
	if err := mw.state.OpenFolder(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onOpenFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if uri == nil {
			return
		}
		mw.OpenFolder(uri.Path())
	}, mw.Window)
}

func (mw *MainWindow) onRescan() {
	if err := mw.state.Rescan(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveLayout() {
	if err := mw.state.SavePlacement(); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.statusBar.SetText("Layout saved")
}

func (mw *MainWindow) onToggleTour() {
	mw.state.ToggleTour()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About PicPyles",
		fmt.Sprintf("PicPyles %s\nA spatial photo browser.", version.Version),
		mw.Window)
}

// SaveOnClose persists layout and preferences; wired to the window close
// intercept in main.
func (mw *MainWindow) SaveOnClose() {
	if err := mw.state.SavePlacement(); err != nil {
		log.Printf("Saving layout on close failed: %v", err)
	}
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Saving preferences failed: %v", err)
	}
}
