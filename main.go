package main

import (
	"log"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"hbnb/config"
	"hbnb/engine"
	"hbnb/models"
)

func main() {
	envFile := pflag.String("env-file", ".env", "optional file with HBNB_* variables")
	importFile := pflag.String("import", "", "YAML document of records to import and save")
	export := pflag.Bool("export", false, "write every stored record to stdout as YAML")
	pflag.Parse()

	c, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	logger, err := zap.NewProduction()
	if c.DebugMode {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(c, logger, *importFile, *export); err != nil {
		logger.Fatal("Storage engine failed", zap.Error(err))
	}
}

func run(c config.Config, logger *zap.Logger, importFile string, export bool) error {
	s, err := engine.Open(c, logger)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Reload(); err != nil {
		return err
	}

	if importFile != "" {
		f, err := os.Open(importFile)
		if err != nil {
			return err
		}
		n, err := engine.Import(s, f)
		f.Close()
		if err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		logger.Info("Imported records", zap.String("file", importFile), zap.Int("count", n))
	}

	for _, k := range models.Kinds() {
		n, err := s.Count(k)
		if err != nil {
			return err
		}
		logger.Info("Stored", zap.Stringer("kind", k), zap.Int("count", n))
	}

	if export {
		return engine.Export(s, os.Stdout)
	}
	return nil
}
