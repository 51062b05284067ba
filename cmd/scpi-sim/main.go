// Command scpi-sim runs a small simulated SCPI instrument (a
// single-channel power supply) reachable over TCP or a local serial
// port, for exercising clients against the scpi-core driver without
// real hardware.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	scpi "github.com/instrument-tools/scpi-core"
	"github.com/instrument-tools/scpi-core/transport"
)

var (
	manufacturer = "Instrument Tools"
	model        = "SIM-1000"
	serialNumber = "SIM0001"
	firmware     = "1.0.0"
)

func buildContext(iface *scpi.Interface, log *logrus.Entry) *scpi.Context {
	inst := newInstrument(log)
	ctx := scpi.NewContext(inst.commandTable(), iface, 4096, scpi.Options{
		LineEnding:     "\n",
		UseCommandTags: false,
		QueueSize:      16,
	})
	ctx.SetIDN(manufacturer, model, serialNumber, firmware)
	return ctx
}

func newRootCmd() *cobra.Command {
	log := logrus.New()

	var addr string
	var device string
	var verbose bool

	root := &cobra.Command{
		Use:   "scpi-sim",
		Short: "Run a simulated SCPI instrument",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Listen on a TCP socket and serve SCPI commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := transport.ListenTCP(addr)
			if err != nil {
				return err
			}
			defer l.Close()
			log.WithField("addr", addr).Info("listening")
			return transport.ListenAndServe(l, func(iface *scpi.Interface) *scpi.Context {
				return buildContext(iface, log.WithField("component", "scpi-sim"))
			}, log)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":5025", "TCP address to listen on")

	serialCmd := &cobra.Command{
		Use:   "serial",
		Short: "Serve SCPI commands over a local serial port",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := transport.OpenSerial(transport.DefaultSerialConfig(device), log)
			if err != nil {
				return err
			}
			defer conn.Close()
			ctx := buildContext(conn.Interface(), log.WithField("component", "scpi-sim"))
			log.WithField("device", device).Info("serving")
			return transport.Serve(ctx, conn)
		},
	}
	serialCmd.Flags().StringVar(&device, "device", "/dev/ttyUSB0", "serial device to open")

	root.AddCommand(serveCmd, serialCmd)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
