package main

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/vidl-app/vidl/internal/config"
	"github.com/vidl-app/vidl/internal/convert"
	"github.com/vidl-app/vidl/internal/download"
	"github.com/vidl-app/vidl/internal/history"
	"github.com/vidl-app/vidl/internal/platform"
	"github.com/vidl-app/vidl/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.vidl-app.vidl"
	AppName = "ViDL"
)

func main() {
	fmt.Printf("%s v%s starting...\n", AppName, version)

	myApp := app.NewWithID(AppID)

	settings := config.NewSettings(myApp)
	myApp.Settings().SetTheme(ui.NewCompactTheme(settings.GetDarkTheme()))

	myWindow := myApp.NewWindow(AppName)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	outputDir := settings.GetOutputDirectory()
	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		log.Printf("failed to ensure output dir: %v", err)
	}

	historyPath, err := history.DefaultPath()
	if err != nil {
		log.Printf("failed to resolve history path: %v", err)
	}
	historyStore := history.NewStore(historyPath)

	downloadSvc := download.NewService()
	convertSvc := convert.NewService()

	ui.NewRootUI(myWindow, myApp, downloadSvc, convertSvc, historyStore)

	myWindow.ShowAndRun()
}
