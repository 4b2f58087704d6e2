package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/huh"

	"github.com/navkit/navcursor/internal/config"
	"github.com/navkit/navcursor/internal/cursor"
	"github.com/navkit/navcursor/internal/ipc"
	"github.com/navkit/navcursor/internal/mcp"
	"github.com/navkit/navcursor/internal/sim"
	"github.com/navkit/navcursor/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "freeze":
		os.Exit(runFreeze(os.Args[2:]))
	case "resume":
		os.Exit(runResume(os.Args[2:]))
	case "refocus":
		os.Exit(runRefocus(os.Args[2:]))
	case "focused":
		os.Exit(runFocused(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "demo":
		os.Exit(runDemo(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: navcursor <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the focus cursor daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  freeze              Freeze the cursor overlay in place")
	fmt.Fprintln(w, "  resume              Resume a frozen cursor overlay")
	fmt.Fprintln(w, "  refocus             Force a fresh focus resolution pass")
	fmt.Fprintln(w, "  focused             Print the currently tracked element")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config show         Print effective configuration")
	fmt.Fprintln(w, "  config edit         Edit configuration interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  demo                Run the interactive cursor playground (no X required)")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'navcursor <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func newClient(socketPath string) *ipc.Client {
	if socketPath != "" {
		return ipc.NewClientForSocket(socketPath)
	}
	return ipc.NewClient()
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: navcursor daemon [--config path] [--log-file path]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Track the marked window and keep the border cursor on it.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/navcursor/config.yaml)")
	logFile := fs.String("log-file", "", "Append logs to this file instead of stderr")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logPath := cfg.Logging.File
	if *logFile != "" {
		logPath = *logFile
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	log.Printf("Configuration loaded (marker: %s, border: %dpx #%06x)",
		cfg.X11.MarkerProperty, cfg.Overlay.BorderWidth, cfg.Overlay.BorderColor)

	conn, err := x11.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer conn.Close()

	adapter := x11.NewAdapter(conn, cfg.X11.MarkerProperty)
	surface := x11.NewSurface(conn, cfg.Overlay.BorderWidth, cfg.Overlay.BorderColor)
	surface.SetAnimated(cfg.Overlay.Animated)

	engine := cursor.New(adapter, surface, cfg.X11.MarkerProperty)
	engine.Start()
	defer engine.Stop()
	log.Println("Cursor engine started")

	ipcServer, err := ipc.NewServer(engine, cfg.Socket)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				newCfg, err := loadConfig(*configPath)
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				// The marker property and border geometry are fixed for the
				// daemon's lifetime; only the transition flag is live.
				surface.SetAnimated(newCfg.Overlay.Animated)
				if newCfg.X11.MarkerProperty != cfg.X11.MarkerProperty {
					log.Printf("marker_property change requires a daemon restart")
				}
				log.Println("Config reloaded")

			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down navcursor daemon...")
				ipcServer.Stop()
				engine.Stop()
				conn.Quit()
			}
		}
	}()

	log.Println("Entering event loop...")
	conn.EventLoop()
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: navcursor status [--socket path]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	socket := fs.String("socket", "", "Control socket path")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := newClient(*socket).GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("phase:          %s\n", status.Phase)
	fmt.Printf("frozen:         %v\n", status.Frozen)
	fmt.Printf("focus_marker:   %s\n", status.FocusMarker)
	focused := status.FocusedID
	if focused == "" {
		focused = "(none)"
	}
	fmt.Printf("focused:        %s\n", focused)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

// runSimpleCommand handles the argument-less IPC forwards.
func runSimpleCommand(name, description string, args []string, do func(*ipc.Client) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: navcursor %s [--socket path]\n\n%s\n", name, description)
	}
	socket := fs.String("socket", "", "Control socket path")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}

	if err := do(newClient(*socket)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runFreeze(args []string) int {
	return runSimpleCommand("freeze", "Freeze the cursor overlay; focus changes keep being tracked.", args,
		func(c *ipc.Client) error { return c.Freeze() })
}

func runResume(args []string) int {
	return runSimpleCommand("resume", "Resume a frozen cursor overlay and reposition it.", args,
		func(c *ipc.Client) error { return c.Resume() })
}

func runRefocus(args []string) int {
	return runSimpleCommand("refocus", "Force a fresh focus resolution pass.", args,
		func(c *ipc.Client) error { return c.Refocus() })
}

func runFocused(args []string) int {
	return runSimpleCommand("focused", "Print the currently tracked element.", args,
		func(c *ipc.Client) error {
			focused, err := c.GetFocused()
			if err != nil {
				return err
			}
			if !focused.Tracked {
				fmt.Println("(none)")
				return nil
			}
			fmt.Println(focused.FocusedID)
			return nil
		})
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  navcursor config show [--config path]")
	fmt.Fprintln(w, "  navcursor config edit [--config path]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "show":
		fs := flag.NewFlagSet("show", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		configPath := fs.String("config", "", "Config file path")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("focus_marker:            %s\n", cfg.FocusMarker)
		fmt.Printf("overlay.border_width:    %d\n", cfg.Overlay.BorderWidth)
		fmt.Printf("overlay.border_color:    #%06x\n", cfg.Overlay.BorderColor)
		fmt.Printf("overlay.transition_ms:   %d\n", cfg.Overlay.TransitionMS)
		fmt.Printf("overlay.animated:        %v\n", cfg.Overlay.Animated)
		fmt.Printf("x11.marker_property:     %s\n", cfg.X11.MarkerProperty)
		if cfg.Logging.File != "" {
			fmt.Printf("logging.file:            %s\n", cfg.Logging.File)
		}
		if cfg.Socket != "" {
			fmt.Printf("socket:                  %s\n", cfg.Socket)
		}
		return 0

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		configPath := fs.String("config", "", "Config file path")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		if err := editConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}

// editConfig runs an interactive form over the effective config and saves
// the result back to the config file.
func editConfig(path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	fMarker := cfg.FocusMarker
	fProperty := cfg.X11.MarkerProperty
	fBorderWidth := strconv.Itoa(cfg.Overlay.BorderWidth)
	fBorderColor := fmt.Sprintf("#%06x", cfg.Overlay.BorderColor)
	fTransition := strconv.Itoa(cfg.Overlay.TransitionMS)
	fAnimated := cfg.Overlay.Animated

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("focus_marker").
				Title("Focus Marker").
				Description("Class-style identifier the engine tracks").
				Value(&fMarker),

			huh.NewInput().
				Key("marker_property").
				Title("X11 Marker Property").
				Description("Window property whose presence marks focus").
				Value(&fProperty),

			huh.NewInput().
				Key("border_width").
				Title("Border Width").
				Description("Cursor border thickness in pixels").
				Value(&fBorderWidth),

			huh.NewInput().
				Key("border_color").
				Title("Border Color").
				Description("Hex color, e.g. #3498db").
				Value(&fBorderColor),

			huh.NewInput().
				Key("transition_ms").
				Title("Transition Duration").
				Description("Steady-state glide duration in milliseconds").
				Value(&fTransition),

			huh.NewConfirm().
				Key("animated").
				Title("Animated Transitions").
				Value(&fAnimated),
		),
	).WithShowHelp(true).WithShowErrors(true)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.FocusMarker = fMarker
	cfg.X11.MarkerProperty = fProperty
	if v, err := strconv.Atoi(fBorderWidth); err == nil && v > 0 {
		cfg.Overlay.BorderWidth = v
	}
	if v, err := config.ParseColor(fBorderColor); err == nil {
		cfg.Overlay.BorderColor = v
	}
	if v, err := strconv.Atoi(fTransition); err == nil && v >= 0 {
		cfg.Overlay.TransitionMS = v
	}
	cfg.Overlay.Animated = fAnimated

	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.Save()
}

func runDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: navcursor demo [--config path]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive cursor playground in the terminal (no X required).")
	}
	configPath := fs.String("config", "", "Config file path")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := sim.Run(cfg.FocusMarker); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMCP(args []string) int {
	if len(args) == 0 || args[0] != "serve" {
		fmt.Fprintln(os.Stderr, "Usage: navcursor mcp serve [--socket path]")
		return 2
	}

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "Control socket path")
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	server := mcp.NewServer(*socket)
	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
