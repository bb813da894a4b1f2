package main

import (
	"fmt"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/joho/godotenv"
	"github.com/rm-hull/face-blur-scale/cmd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var port int
	var debug bool

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:  "face-blur-scale",
		Long: `Gaussian blur, bicubic resizing and letterboxing for face images`,
	}

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(port, debug)
		},
	}

	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versioninfo.Short())
		},
	}

	rootCmd.AddCommand(apiServerCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
