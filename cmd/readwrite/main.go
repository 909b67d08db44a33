// Command readwrite puts a single key/value pair into a table and reads
// it back. It mirrors the reference read_and_write example.
package main

import (
	"flag"

	"github.com/barrelkv/kvtable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	dir := flag.String("dir", "test_table", "table directory")
	key := flag.String("key", "key", "key to write and read back")
	value := flag.String("value", "value", "value to write")
	flag.Parse()

	log := buildLogger()
	defer log.Sync()
	log = log.Named("readwrite")

	tbl := kvtable.NewTable(*dir, kvtable.Options{
		CreateIfMissing: true,
		Logger:          log.Sugar(),
	})

	if err := tbl.Open(); err != nil {
		log.Fatal("open failed", zap.Error(err))
	}
	defer tbl.Close()

	if err := tbl.Put([]byte(*key), []byte(*value)); err != nil {
		log.Fatal("put failed", zap.Error(err))
	}

	got, err := tbl.Get([]byte(*key))
	if err != nil {
		log.Fatal("get failed", zap.Error(err))
	}

	log.Info("round trip complete", zap.String("key", *key), zap.ByteString("value", got))
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	return zap.Must(logConfig.Build())
}
