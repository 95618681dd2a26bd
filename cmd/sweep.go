package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qrave1/proctorlink/internal/application/config"
	"github.com/qrave1/proctorlink/internal/application/constant"
	"github.com/qrave1/proctorlink/internal/infra/adapters/disk"
	"github.com/qrave1/proctorlink/internal/usecase"
)

// sweepCmd - разовая очистка загрузок, например из системного cron
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete every uploaded recording once and exit",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.New()
		if err != nil {
			slog.Error("parse config", slog.Any(constant.Error, err))
			os.Exit(1)
		}

		setupLogger(cfg)

		storage, err := disk.NewRecordingStorage(cfg.Upload.Dir)
		if err != nil {
			slog.Error("init recording storage", slog.Any(constant.Error, err))
			os.Exit(1)
		}

		if _, err = usecase.NewRecordingUsecase(storage).Sweep(cmd.Context()); err != nil {
			slog.Error("sweep uploads", slog.Any(constant.Error, err))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
