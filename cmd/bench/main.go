// Command bench runs the put/get benchmark pair from the reference
// implementation's benchmark example: repeated timed passes of Put over
// a generated key/value set, then repeated timed passes of random-order
// Get against a pre-populated table.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/barrelkv/kvtable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

func ordinal(n int) string {
	if n%10 == 1 && n%100 != 11 {
		return fmt.Sprintf("%dst", n)
	}
	if n%10 == 2 && n%100 != 12 {
		return fmt.Sprintf("%dnd", n)
	}
	if n%10 == 3 && n%100 != 13 {
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}

func putBenchmark(log *zap.Logger, dir string, entryNum, testTimes int) {
	keys := make([]string, entryNum)
	values := make([]string, entryNum)
	for i := range keys {
		keys[i] = randomString(16)
		values[i] = randomString(100)
	}

	log.Info("put benchmark", zap.Int("entries", entryNum))
	for pass := 1; pass <= testTimes; pass++ {
		tbl := kvtable.NewTable(dir, kvtable.Options{
			CreateIfMissing: true,
			DumpWhenClose:   false,
		})
		if err := tbl.Open(); err != nil {
			log.Fatal("open failed", zap.Error(err))
		}

		start := time.Now()
		for i := range keys {
			if err := tbl.Put([]byte(keys[i]), []byte(values[i])); err != nil {
				log.Fatal("put failed", zap.Error(err))
			}
		}
		elapsed := time.Since(start)

		log.Info(fmt.Sprintf("%s: spend %dms", ordinal(pass), elapsed.Milliseconds()))
		tbl.Close()
	}
}

func getBenchmark(log *zap.Logger, dir string, entryNum, getTimes, testTimes int) {
	keys := make([]string, entryNum)
	values := make([]string, entryNum)
	for i := range keys {
		keys[i] = randomString(16)
		values[i] = randomString(100)
	}

	tbl := kvtable.NewTable(dir, kvtable.Options{
		CreateIfMissing: true,
		DumpWhenClose:   false,
	})
	if err := tbl.Open(); err != nil {
		log.Fatal("open failed", zap.Error(err))
	}
	defer tbl.Close()

	for i := range keys {
		if err := tbl.Put([]byte(keys[i]), []byte(values[i])); err != nil {
			log.Fatal("put failed", zap.Error(err))
		}
	}

	log.Info("get benchmark", zap.Int("entries", entryNum), zap.Int("gets", getTimes))
	for pass := 1; pass <= testTimes; pass++ {
		indices := make([]int, getTimes)
		for i := range indices {
			indices[i] = rand.Intn(entryNum)
		}

		start := time.Now()
		for _, idx := range indices {
			if _, err := tbl.Get([]byte(keys[idx])); err != nil {
				log.Fatal("get failed", zap.Error(err))
			}
		}
		elapsed := time.Since(start)

		log.Info(fmt.Sprintf("%s: spend %dms", ordinal(pass), elapsed.Milliseconds()))
	}
}

func main() {
	dir := flag.String("dir", "table_benchmark", "table directory")
	flag.Parse()

	log := buildLogger()
	defer log.Sync()
	log = log.Named("bench")

	putBenchmark(log, *dir, 100000, 5)
	putBenchmark(log, *dir, 1000000, 5)

	getBenchmark(log, *dir, 100000, 10000, 5)
	getBenchmark(log, *dir, 1000000, 10000, 5)
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	return zap.Must(logConfig.Build())
}
