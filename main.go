package main

import (
	"fmt"
	"os"
	"strings"

	"repertoire/backup"
	"repertoire/config"
	"repertoire/db"
	"repertoire/models"
	"repertoire/storage"
	"repertoire/utils"

	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "repertoire",
		Short:         "Chess opening repertoire server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
		RunE: runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "init-db",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				db.Init()
				if err := models.Init(db.Instance); err != nil {
					return err
				}
				zap.L().Info("database schema ready", zap.Bool("sqlite", db.IsSQLite()))
				return nil
			},
		},
		exportBackupCmd(),
	)
	return root
}

func exportBackupCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-backup",
		Short: "Write a backup zip with the database and uploaded images",
		RunE: func(cmd *cobra.Command, args []string) error {
			db.Init()
			initStorage()
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			if err = backup.Write(file, db.Instance, storage.GetDefaultStorage()); err != nil {
				file.Close()
				return err
			}
			if err = file.Close(); err != nil {
				return err
			}
			zap.L().Info("backup written", zap.String("file", out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "backup.zip", "output file")
	return cmd
}

func initLogger() error {
	var (
		logger *zap.Logger
		err    error
	)
	if config.DEBUG_MODE {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("cannot create logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func initStorage() {
	bucket := storage.Bucket{
		StorageType: storage.StorageTypeFile,
		Path:        config.UPLOAD_DIR,
	}
	if config.S3_BUCKET != "" {
		bucket = storage.Bucket{
			Name:        config.S3_BUCKET,
			StorageType: storage.StorageTypeS3,
			Path:        config.S3_PREFIX,
			Region:      config.S3_REGION,
			Endpoint:    config.S3_ENDPOINT,
			S3Key:       config.S3_KEY,
			S3Secret:    config.S3_SECRET,
		}
	}
	storage.Init(bucket)
}

func runServe(cmd *cobra.Command, args []string) error {
	db.Init()
	if err := models.Init(db.Instance); err != nil {
		return err
	}
	initStorage()

	if config.SESSION_SECRET == "" {
		zap.L().Warn("SESSION_SECRET is not set, using a random one")
		config.SESSION_SECRET = utils.Rand16BytesToBase62()
	}
	store := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_SECRET))
	router := setupRouter(store)

	zap.L().Info("starting server", zap.String("address", config.BIND_ADDRESS), zap.String("tls", config.TLS_DOMAINS))
	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	return fmt.Errorf("server stopped: %w", err)
}
