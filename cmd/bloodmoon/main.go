// Command bloodmoon renders a night scene with HDR lighting and bloom.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"blood-moon/core"
	"blood-moon/internal/config"
	"blood-moon/internal/logging"
	"blood-moon/internal/opengl"
	"blood-moon/internal/state"
	"blood-moon/renderer"
	"blood-moon/scene"
)

var (
	// Version information (set at build time)
	version = "dev"

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

// flagKeys binds command-line flags to config keys.
var flagKeys = map[string]string{
	"assets":      "assets.root",
	"shaders":     "assets.shader_dir",
	"hot-reload":  "assets.hot_reload",
	"exposure":    "render.exposure",
	"bloom":       "render.bloom",
	"blur-passes": "render.blur_passes",
	"gamma":       "render.gamma",
	"state":       "state.path",
	"log-level":   "log.level",
	"log-file":    "log.file",
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	load := func() (*config.Config, error) {
		return config.Load(v, cfgFile)
	}

	root := &cobra.Command{
		Use:           "bloodmoon",
		Short:         "Night scene with HDR lighting, bloom and a blood moon",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	d := config.DefaultConfig()
	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./bloodmoon.yaml or ~/.bloodmoon/bloodmoon.yaml)")
	flags.String("assets", d.Assets.Root, "asset root directory")
	flags.String("shaders", d.Assets.ShaderDir, "shader override directory, relative to the asset root")
	flags.Bool("hot-reload", d.Assets.HotReload, "recompile shaders when their files change")
	flags.Float32("exposure", d.Render.Exposure, "tone-mapping exposure")
	flags.Bool("bloom", d.Render.Bloom, "enable bloom")
	flags.Int("blur-passes", d.Render.BlurPasses, "single-direction blur passes per frame")
	flags.Float32("gamma", d.Render.Gamma, "display gamma (0 or 1 disables the gamma curve)")
	flags.String("state", d.State.Path, "program state file (.yaml, or .txt for the line format)")
	flags.String("log-level", d.Log.Level, "log level: debug, info, warn, error")
	flags.String("log-file", d.Log.File, "also append logs to this file")
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err) // flag names above are static
		}
	}

	root.AddCommand(newConfigCmd(load), newRenderTestCmd(load))
	return root
}

func newConfigCmd(load func() (*config.Config, error)) *cobra.Command {
	var write string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML, or write it to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if write != "" {
				if err := config.Save(cfg, write); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Fprintln(out, okStyle.Render("config written to "+write))
				return nil
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprintln(out, titleStyle.Render("# effective configuration"))
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "write the effective configuration to this file instead of printing it")
	return cmd
}

func newRenderTestCmd(load func() (*config.Config, error)) *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "render-test",
		Short: "Run one HDR frame on the software backend and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
			if err != nil {
				return err
			}
			defer logger.Close()

			s := cfg.Render.Settings()
			res, err := runRenderTest(s, width, height,
				mgl32.Vec3{0.05, 0.05, 0.1}, mgl32.Vec3{8, 2, 1}, logger.Component("hdr"))
			if err != nil {
				return err
			}
			printRenderTest(cmd.OutOrStdout(), s, res)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 64, "target width")
	cmd.Flags().IntVar(&height, "height", 32, "target height")
	return cmd
}

const statsInterval = 5.0 // seconds between frame stat log lines

// run opens the window and drives the frame loop until the window closes.
func run(cfg *config.Config) error {
	lc := logging.DefaultConfig()
	lc.Level, lc.File = cfg.Log.Level, cfg.Log.File
	logger, err := logging.New(lc)
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Component("main")

	ps, err := state.Load(cfg.State.Path)
	if err != nil {
		log.Warn().Err(err).Msg("program state unreadable, using defaults")
	}

	window, err := core.NewWindow(core.WindowConfig{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
		VSync:  cfg.Window.VSync,
	}, logger.Component("window"))
	if err != nil {
		return err
	}
	defer window.Destroy()

	fbw, fbh := window.GetFramebufferSize()
	engine, err := renderer.NewRenderEngine(renderer.Options{
		AssetRoot: cfg.Assets.Root,
		GL: opengl.RendererConfig{
			ShaderDir: cfg.Assets.ShaderPath(),
			HotReload: cfg.Assets.HotReload,
		},
		Width:             fbw,
		Height:            fbh,
		FramebufferWidth:  fbw,
		FramebufferHeight: fbh,
	}, logger.Component("renderer"))
	if err != nil {
		return err
	}
	defer engine.Destroy()

	cam := scene.NewCamera(ps.CameraPosition)
	cam.SetFront(ps.CameraFront)
	env := scene.NewEnvironment()
	settings := cfg.Render.Settings()
	panel := &Panel{Open: ps.PanelEnabled}

	ctl := NewController(cam, env, &settings, panel, ps.CameraMouseUpdate, logger.Component("panel"))
	ctl.SetCursorVisible = window.SetCursorVisible
	ctl.Quit = func() { window.SetShouldClose(true) }

	window.SetCursorVisible(panel.Open)
	window.SetKeyCallback(ctl.OnKey)
	window.SetCursorPosCallback(ctl.OnCursor)
	window.SetScrollCallback(func(_, yoff float64) { ctl.OnScroll(yoff) })
	window.SetFramebufferSizeCallback(engine.SetFramebufferSize)

	panel.Build(cam, env, settings, ctl.MouseUpdate)
	window.SetTitle(panel.Title(cfg.Window.Title))

	last := window.Time()
	nextStats := last + statsInterval
	for !window.ShouldClose() {
		now := window.Time()
		dt := float32(now - last)
		last = now

		ctl.Move(window.IsKeyPressed, dt)
		engine.ReloadShaders()

		err := engine.Render(renderer.FrameInput{
			Time:     now,
			Camera:   cam,
			Aspect:   window.Aspect(),
			Env:      env,
			Settings: settings,
			Clear:    ps.ClearColor,
		})
		if err != nil {
			return err
		}

		if now >= nextStats {
			st := engine.LastStats()
			log.Debug().
				Int("draws", st.Draws).
				Int("culled", st.Culled).
				Int("triangles", st.Triangles).
				Float32("fps", 1/dt).
				Msg("frame stats")
			nextStats = now + statsInterval
		}

		if ctl.TakeChanged() {
			panel.Build(cam, env, settings, ctl.MouseUpdate)
			window.SetTitle(panel.Title(cfg.Window.Title))
		}

		window.SwapBuffers()
		window.PollEvents()
	}

	ps.PanelEnabled = panel.Open
	ps.CameraPosition = cam.Position
	ps.CameraFront = cam.Front
	ps.CameraMouseUpdate = ctl.MouseUpdate
	if err := ps.Save(cfg.State.Path); err != nil {
		log.Error().Err(err).Msg("saving program state")
	} else {
		log.Info().Str("path", cfg.State.Path).Msg("program state saved")
	}
	return nil
}
