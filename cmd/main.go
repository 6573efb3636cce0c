package main

import (
	"fmt"
	"os"
	"signalrouter/cmd/credentials"
	"signalrouter/cmd/seedcrypto"
	"signalrouter/cmd/signalscan"
	"signalrouter/src/database"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Signalrouter CMD"
	app.Usage = "The Signalrouter command line interface"

	app.Commands = []cli.Command{
		seedCryptoCMD,
		signalScanCMD,
		credentialsCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	seedCryptoCMD = cli.Command{
		Name:        "seed_crypto",
		Usage:       "run crypto candle seeding",
		Action:      seedCryptoAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Fetch exchange OHLCV candles and refresh dashboard quotes`,
	}
	signalScanCMD = cli.Command{
		Name:        "signal_scan",
		Usage:       "run the signal scanner",
		Action:      signalScanAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Scan stored candles periodically and record trading signals`,
	}
	credentialsCMD = cli.Command{
		Name:        "credentials",
		Usage:       "run the credentials console",
		Action:      credentialsAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Manage the legacy broker login and the admin passphrase hash`,
	}
)

// seedCryptoAction fetches OHLCV candles for the configured crypto pair.
func seedCryptoAction(_ *cli.Context) error {

	logrus.Info("Starting seed crypto CMD")
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	seeder := &seedcrypto.SeedCrypto{
		Log: logrus.WithField("cmd", "seed_crypto"),
		DB:  database.MainDB,
	}

	err := seeder.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting seed crypto cmd")
		return err
	}

	return nil
}

func signalScanAction(_ *cli.Context) error {

	logrus.Info("Starting signal scan CMD")
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	scanner := &signalscan.Scanner{
		Log: logrus.WithField("cmd", "signal_scan"),
	}
	err := scanner.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting signal scan cmd")
		return err
	}

	return nil
}

func credentialsAction(_ *cli.Context) error {

	logrus.Info("Starting credentials CMD")

	console := &credentials.CLI{}
	err := console.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting credentials cmd")
		return err
	}

	return nil
}
