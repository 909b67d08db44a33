// Command persistdemo writes a key/value pair and explicitly dumps the
// table to its segment directory without closing it, demonstrating that
// Dump and DumpWhenClose are independent. It mirrors the reference
// persistence_data example.
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
	log = log.Named("persistdemo")

	tbl := kvtable.NewTable(*dir, kvtable.Options{
		CreateIfMissing: true,
		DumpWhenClose:   false,
		Logger:          log.Sugar(),
	})

	if err := tbl.Open(); err != nil {
		log.Fatal("open failed", zap.Error(err))
	}
	defer tbl.Close()

	if err := tbl.Put([]byte("key"), []byte("value")); err != nil {
		log.Fatal("put failed", zap.Error(err))
	}

	if err := tbl.Dump(); err != nil {
		log.Fatal("dump failed", zap.Error(err))
	}

	log.Info("dumped table to disk", zap.String("dir", *dir))
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	return zap.Must(logConfig.Build())
}
