package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/splinescatter/internal/config"
	"github.com/Faultbox/splinescatter/internal/engine"
	"github.com/Faultbox/splinescatter/internal/host"
	"github.com/Faultbox/splinescatter/internal/logger"
	"github.com/Faultbox/splinescatter/internal/preview"
	"github.com/Faultbox/splinescatter/internal/scene"
	"github.com/Faultbox/splinescatter/internal/watch"
)

// session is a loaded scene bound to an engine and an in-memory host.
type session struct {
	doc    *scene.Document
	host   *host.Memory
	engine *engine.Engine
}

func openSession(cfg *config.Config, path string) (*session, error) {
	mem := host.NewMemory()
	s := &session{
		host:   mem,
		engine: engine.New(mem, cfg.EngineOptions()),
	}
	if err := s.reload(path); err != nil {
		return nil, err
	}
	return s, nil
}

// reload re-reads the scene file and re-imports it.
func (s *session) reload(path string) error {
	doc, err := scene.Load(path)
	if err != nil {
		return err
	}
	cat, err := doc.Catalog()
	if err != nil {
		return err
	}
	if err := s.engine.Import(doc.Spline(), cat, doc.Profiles()); err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	s.doc = doc
	return nil
}

func cmdLayout(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: scatter layout <scene>")
	}
	s, err := openSession(cfg, args[0])
	if err != nil {
		return err
	}

	l := s.engine.Layout()
	fmt.Printf("Scene:  %s\n", args[0])
	fmt.Printf("Length: %.2f\n", s.engine.Curve().Length())
	fmt.Println()

	for _, b := range l.Instances {
		fmt.Printf("instances[%d] %-12s %4d placed, %4d lights\n",
			b.Profile, assetLabel(string(b.Asset)), len(b.Instances), len(b.Lights))
		if len(b.Instances) > 0 {
			ds := make([]string, 0, len(b.Instances))
			for _, inst := range b.Instances {
				ds = append(ds, fmt.Sprintf("%.1f", inst.Distance))
			}
			fmt.Printf("  at %s\n", strings.Join(ds, ", "))
		}
	}
	for _, r := range l.Segments {
		asset := ""
		if len(r.Segments) > 0 {
			asset = string(r.Segments[0].Asset)
		}
		fmt.Printf("segments[%d]  %-12s %4d segments\n", r.Profile, assetLabel(asset), len(r.Segments))
		for _, seg := range r.Segments {
			fmt.Printf("  %.1f -> %.1f\n", seg.Start.Distance, seg.End.Distance)
		}
	}
	for _, st := range l.Strands {
		fmt.Printf("strands[%d]   %4d lights\n", st.Profile, len(st.Lights))
	}

	t := l.Totals()
	fmt.Printf("\nTotal: %d instances, %d segments, %d lights\n", t.Instances, t.Segments, t.Lights)
	return nil
}

func assetLabel(a string) string {
	if a == "" {
		return "(unset)"
	}
	return a
}

func cmdPreview(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: scatter preview <scene> <out.png>")
	}
	s, err := openSession(cfg, args[0])
	if err != nil {
		return err
	}

	opts := preview.DefaultOptions()
	opts.Width = cfg.Preview.Width
	opts.Height = cfg.Preview.Height
	opts.Padding = cfg.Preview.Padding
	opts.SampleStep = cfg.Preview.SampleStep

	img := preview.Render(s.doc.Spline(), s.engine.Layout(), opts)
	if err := preview.WritePNG(args[1], img); err != nil {
		return fmt.Errorf("writing %s: %w", args[1], err)
	}
	logger.Info("preview written", zap.String("path", args[1]),
		zap.Int("width", opts.Width), zap.Int("height", opts.Height))
	return nil
}

func cmdWatch(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: scatter watch <scene>")
	}
	path := args[0]
	s, err := openSession(cfg, path)
	if err != nil {
		return err
	}
	logger.Info("watching scene", zap.String("path", path),
		zap.Object("totals", s.engine.Layout().Totals()))

	w, err := watch.New(path, cfg.Watch.Debounce, func() error {
		if err := s.reload(path); err != nil {
			return err
		}
		logger.Info("scene reloaded", zap.Object("totals", s.engine.Layout().Totals()))
		return nil
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func cmdConvert(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: scatter convert <in> <out>")
	}
	doc, err := scene.Load(args[0])
	if err != nil {
		return err
	}
	if err := scene.Save(args[1], doc); err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", args[0], args[1])
	return nil
}
