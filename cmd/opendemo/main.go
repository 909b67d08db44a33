// Command opendemo opens a table directory, creating it if missing, and
// closes it again. It mirrors the reference open_and_close example.
package main

import (
	"flag"

	"github.com/barrelkv/kvtable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	dir := flag.String("dir", "test_table", "table directory")
	flag.Parse()

	log := buildLogger()
	defer log.Sync()
	log = log.Named("opendemo")

	tbl := kvtable.NewTable(*dir, kvtable.Options{
		CreateIfMissing: true,
		Logger:          log.Sugar(),
	})

	if err := tbl.Open(); err != nil {
		log.Fatal("open failed", zap.Error(err))
	}

	if err := tbl.Close(); err != nil {
		log.Fatal("close failed", zap.Error(err))
	}

	log.Info("opened and closed table", zap.String("dir", *dir))
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	return zap.Must(logConfig.Build())
}
