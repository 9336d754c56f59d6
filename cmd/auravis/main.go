// Command auravis runs the audio-reactive LED visualizer of spec §1/§2:
// it captures PCM audio, drives the effect engine, maps frames onto the
// 64-strip installation, emits Art-Net, and serves the UDP and
// WebSocket preview protocols. Grounded in the teacher's
// AppServerMain/pflag CLI idiom (appserver.go).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/kgander/auravis/internal/artnet"
	"github.com/kgander/auravis/internal/audio"
	"github.com/kgander/auravis/internal/clock"
	"github.com/kgander/auravis/internal/config"
	"github.com/kgander/auravis/internal/control"
	"github.com/kgander/auravis/internal/discovery"
	"github.com/kgander/auravis/internal/effects"
	"github.com/kgander/auravis/internal/gpio"
	"github.com/kgander/auravis/internal/logging"
	"github.com/kgander/auravis/internal/mapper"
	"github.com/kgander/auravis/internal/preview/udp"
	"github.com/kgander/auravis/internal/preview/ws"
	"github.com/kgander/auravis/internal/spectrum"
	"github.com/kgander/auravis/internal/state"
)

var log = logging.For("main")

func main() {
	configPath := pflag.StringP("config", "c", "", "Path to TOML configuration file.")
	deviceName := pflag.StringP("device", "d", "", "Audio input device name (substring match).")
	simulator := pflag.Bool("simulator", false, "Direct Art-Net output to the localhost simulator instead of production controllers.")
	announce := pflag.Bool("mdns", true, "Announce the preview services over mDNS/DNS-SD.")
	statusChip := pflag.String("status-gpio-chip", "", "GPIO chip (e.g. gpiochip0) driving a status lamp while LED output runs. Empty disables it.")
	statusLine := pflag.Int("status-gpio-line", 0, "GPIO line offset on --status-gpio-chip for the status lamp.")
	watchHotplug := pflag.Bool("watch-hotplug", false, "Watch for audio device hotplug events (Linux only) and log them.")
	help := pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - audio-reactive LED visualizer\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	opts := runOptions{
		configPath:   *configPath,
		deviceName:   *deviceName,
		simulator:    *simulator,
		announce:     *announce,
		statusChip:   *statusChip,
		statusLine:   *statusLine,
		watchHotplug: *watchHotplug,
	}

	if err := run(opts); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath   string
	deviceName   string
	simulator    bool
	announce     bool
	statusChip   string
	statusLine   int
	watchHotplug bool
}

func run(opts runOptions) error {
	configPath := opts.configPath
	deviceName := opts.deviceName
	simulator := opts.simulator
	announce := opts.announce
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("main: initialize portaudio: %w", err)
	}
	defer portaudio.Terminate() //nolint:errcheck

	shared := state.New()
	shared.SetGain(cfg.Audio.Gain)
	shared.SetBrightness(cfg.LED.Brightness)

	analyzer := spectrum.New()
	engine := effects.NewEngine()
	pipeline := clock.NewRenderPipeline(shared, analyzer, engine)

	m := mapper.New()

	controllers := cfg.LED.Controllers
	if simulator {
		controllers = config.Simulator()
	}

	emitter, err := artnet.NewEmitter(m, controllers)
	if err != nil {
		return fmt.Errorf("main: initialize art-net emitter: %w", err)
	}
	defer emitter.Close() //nolint:errcheck

	controller := control.New(shared, engine, emitter, cfg, pipeline.OnAudioBuffer)

	if deviceName != "" {
		if err := controller.StartAudioCapture(deviceName); err != nil {
			log.Error("failed to start audio capture, continuing with silence", "err", err)
		}
	}

	udpServer, err := udp.NewServer(shared, engine)
	if err != nil {
		return fmt.Errorf("main: bind UDP preview server: %w", err)
	}
	defer udpServer.Close() //nolint:errcheck

	wsServer := ws.NewServer(shared, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shared.SetLEDRunning(true)

	go clock.EmitterLoop(ctx, shared, emitter, shared.LEDRunning)
	go udpServer.ReceiveLoop(shared.LEDRunning)
	go udpServer.SenderLoop(shared.LEDRunning)

	go func() {
		if err := wsServer.Serve(); err != nil {
			log.Error("websocket preview server stopped", "err", err)
		}
	}()

	var announcer *discovery.Announcer
	if announce {
		announcer, err = discovery.Start("auravis", 8081, 8080)
		if err != nil {
			log.Error("mDNS announcement failed, continuing without it", "err", err)
		}
	}

	var statusLamp *gpio.StatusLine
	if opts.statusChip != "" {
		statusLamp, err = gpio.OpenStatusLine(opts.statusChip, opts.statusLine)
		if err != nil {
			log.Error("status GPIO line unavailable, continuing without it", "err", err)
		} else {
			defer statusLamp.Close() //nolint:errcheck
			statusLamp.SetActive(true)
		}
	}

	hotplugStop := make(chan struct{})
	if opts.watchHotplug {
		go func() {
			if err := audio.WatchHotplug(hotplugStop, func() {
				log.Info("audio hotplug event detected")
			}); err != nil {
				log.Error("hotplug watcher stopped", "err", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	log.Info("auravis running", "simulator", simulator)
	<-sigCh

	log.Info("shutting down")

	close(hotplugStop)

	if announcer != nil {
		announcer.Stop()
	}

	if statusLamp != nil {
		statusLamp.SetActive(false)
	}

	cancel()

	if err := controller.StopAudioCapture(); err != nil {
		log.Error("stop_audio_capture failed", "err", err)
	}

	if err := wsServer.Close(); err != nil {
		log.Error("websocket server close failed", "err", err)
	}

	return nil
}
