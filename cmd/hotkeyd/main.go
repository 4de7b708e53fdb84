package main

import (
	"fmt"
	"log"
	"os"

	"github.com/TanaroSch/global-hotkeys/internal/app"
	"github.com/TanaroSch/global-hotkeys/internal/config"
	"github.com/TanaroSch/global-hotkeys/internal/resources"
	"github.com/TanaroSch/global-hotkeys/internal/ui"
)

const version = "v0.3.0"

func main() {
	log.Printf("Global Hotkeys daemon %s starting...", version)

	cfg, err := config.Load("config.json")
	if err != nil {
		log.Printf("Error loading config: %v", err)
		ui.ShowFatalError(config.DefaultKeyringService,
			fmt.Sprintf("Failed to load configuration:\n%v", err))
		os.Exit(1)
	}

	icon, err := resources.GetIcon()
	if err != nil {
		log.Printf("Warning: Failed to load embedded icon: %v", err)
	}
	ui.InitGlobalNotifications(cfg.UseNotifications, config.DefaultKeyringService, icon)

	application, err := app.New(cfg, version)
	if err != nil {
		log.Printf("Error initializing application: %v", err)
		ui.ShowFatalError(config.DefaultKeyringService,
			fmt.Sprintf("Failed to initialize hotkeys:\n%v", err))
		os.Exit(1)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	application.Run()
}
