// Command server runs the bacteria detection HTTP service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bio-vision-lab/bacteria-detect/api"
	"github.com/bio-vision-lab/bacteria-detect/config"
	"github.com/bio-vision-lab/bacteria-detect/detect"
	"github.com/bio-vision-lab/bacteria-detect/inference"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}

// run owns the detector and server lifecycle. Fatalf in main would skip
// deferred cleanup, so the native session is released here before returning.
func run() error {
	log.Println("🔄 Initializing Bacteria Detection API...")

	cfg := config.Load()
	detector := loadDetector(cfg)
	if detector != nil {
		defer detector.Close()
		log.Println("✅ Model loaded successfully - API ready!")
	} else {
		log.Println("⚠️ Model failed to load - detection calls will return 503")
	}

	server := api.NewServer(cfg.Port, detector, int64(cfg.MaxUploadMB)<<20)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	log.Printf("🚀 Serving on http://localhost:%d", cfg.Port)
	return g.Wait()
}

// loadDetector builds the configured inference backend. A load failure is
// not fatal: the service still starts and reports the condition on /health.
func loadDetector(cfg *config.Config) detect.Detector {
	classNames := detect.DefaultClassNames
	if cfg.ModelClasses != "" {
		loaded, err := detect.LoadClassNames(cfg.ModelClasses)
		if err != nil {
			log.Printf("⚠️ Could not load class names from %s: %v", cfg.ModelClasses, err)
		} else {
			classNames = loaded
		}
	}

	infCfg := inference.DefaultConfig()
	infCfg.ModelPath = cfg.ModelPath
	infCfg.ConfidenceThreshold = float32(cfg.ConfidenceThreshold)
	infCfg.NMSThreshold = float32(cfg.NMSThreshold)
	infCfg.ClassNames = classNames
	infCfg.LibraryPath = cfg.ORTLibraryPath

	log.Printf("Loading model from: %s (backend: %s)", cfg.ModelPath, cfg.ModelBackend)
	detector, err := inference.New(inference.Backend(cfg.ModelBackend), infCfg)
	if err != nil {
		log.Printf("❌ Error loading model: %v", err)
		return nil
	}
	return detector
}
