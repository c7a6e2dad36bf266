package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"github.com/irgordon/leaderboard/api/internal/client"
	"github.com/irgordon/leaderboard/api/internal/infrastructure/crypto"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "leaderboard-upload"
	app.Usage = "Seal a score file and post it to a leaderboard server"
	app.Version = version
	app.Flags = getFlags()
	app.Action = run
	return app
}

// parseLevel rejects levels outside 1..MaxInt32 instead of letting them wrap.
func parseLevel(n int) (int32, error) {
	if n < 1 || n > math.MaxInt32 {
		return 0, fmt.Errorf("level must be between 1 and %d, got %d", math.MaxInt32, n)
	}
	return int32(n), nil
}

func run(c *cli.Context) error {
	level, err := parseLevel(c.Int("level"))
	if err != nil {
		return err
	}

	suite, err := crypto.ParseSuite(c.String("suite"))
	if err != nil {
		return err
	}

	keyHex := c.String("key")
	if keyHex == "" {
		return cli.NewExitError("KEY not set in environment", 2)
	}
	codec, err := crypto.NewCodecFromHex(keyHex, suite)
	if err != nil {
		return err
	}

	plaintext, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("read plaintext: %w", err)
	}

	uploader := client.NewUploader(client.Config{
		BaseURL: c.String("addr"),
		Timeout: c.Duration("timeout"),
	}, codec)

	resp, err := uploader.SealAndUpload(context.Background(), level, plaintext)
	if err != nil {
		return err
	}

	fmt.Println(resp.StatusCode, string(resp.Body))
	return nil
}

func getFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "addr, a",
			Usage: "leaderboard server base `URL`",
			Value: "http://localhost:3000",
		},
		cli.IntFlag{
			Name:  "level, l",
			Usage: "level whose board receives the score",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "file, f",
			Usage: "read the plaintext payload from `FILE`",
			Value: "plaintext.txt",
		},
		cli.StringFlag{
			Name:   "suite, s",
			Usage:  "cipher suite [aes-128-cbc|chacha20-poly1305]",
			Value:  "aes-128-cbc",
			EnvVar: "CIPHER_SUITE",
		},
		cli.StringFlag{
			Name:   "key, k",
			Usage:  "hex-encoded shared key",
			EnvVar: "KEY",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "request timeout",
			Value: 10 * time.Second,
		},
	}
}
