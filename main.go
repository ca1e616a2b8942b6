package main

import (
	"embed"
	"log"
	"os"

	"chitchats/internal/app"
	"chitchats/internal/infrastructure/config"
	"chitchats/internal/infrastructure/errors"
	"chitchats/internal/infrastructure/logging"
	"chitchats/internal/platform"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = config.LoadOrDefault()
	}
	if platform.HasMinimizedFlag(os.Args[1:]) {
		cfg.Window.StartMinimized = true
	}

	appLogger, err := logging.New(cfg.LoggerConfig())
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	if cfgErr != nil {
		logging.LogError(appLogger, cfgErr, "load_config", map[string]interface{}{"fallback": "defaults"})
	}

	errors.SetDefaultRetryLogger(appLogger)

	application := app.NewApp(cfg, appLogger)

	logLevel := logger.INFO
	if cfg.IsDevelopment() {
		logLevel = logger.DEBUG
	}

	err = wails.Run(&options.App{
		Title:             "ChitChats",
		Width:             1200,
		Height:            800,
		MinWidth:          int(cfg.Window.MinWidth),
		MinHeight:         int(cfg.Window.MinHeight),
		DisableResize:     false,
		Fullscreen:        false,
		Frameless:         false,
		StartHidden:       true,
		HideWindowOnClose: false,
		BackgroundColour:  &options.RGBA{R: 255, G: 255, B: 255, A: 255},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Menu:             application.Menu(),
		Logger:           logging.NewWailsLoggerAdapter(appLogger),
		LogLevel:         logLevel,
		OnStartup:        application.Startup,
		OnDomReady:       application.DomReady,
		OnBeforeClose:    application.BeforeClose,
		OnShutdown:       application.Shutdown,
		WindowStartState: options.Normal,
		Bind: []interface{}{
			application,
		},
		// Windows platform specific options
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
			WebviewUserDataPath:  "",
			ZoomFactor:           1.0,
		},
		// Mac platform specific options
		Mac: &mac.Options{
			TitleBar:             mac.TitleBarDefault(),
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			About: &mac.AboutInfo{
				Title:   "ChitChats",
				Message: "Desktop shell for the ChitChats backend",
			},
		},
	})

	if err != nil {
		appLogger.Error("Application exited with error", "error", err.Error())
		appLogger.Sync()
		log.Fatal(err)
	}
}
