package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aashish23092/itr-audit-engine/client"
	"github.com/Aashish23092/itr-audit-engine/config"
	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/Aashish23092/itr-audit-engine/handler"
	"github.com/Aashish23092/itr-audit-engine/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	tablesPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "itr-audit",
	Short: "ITR reconciliation and tax regime comparison",
	Long: `itr-audit reconciles an Income Tax Return against the AIS and Form 26AS,
flags compliance risks and compares the old and new tax regimes.

Run "itr-audit serve" to start the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
			level, err := zapcore.ParseLevel(lvl)
			if err != nil {
				return fmt.Errorf("invalid LOG_LEVEL %q: %w", lvl, err)
			}
			zapConfig.Level = zap.NewAtomicLevelAt(level)
		}
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the old and new regimes for an income",
	Args:  cobra.NoArgs,
	RunE:  runCompare,
}

var auditCmd = &cobra.Command{
	Use:   "audit [request.json]",
	Short: "Audit an ITR against AIS and Form 26AS figures",
	Long:  `Reads an audit request as JSON from the given file, or from stdin when no file or "-" is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAudit,
}

var slabsCmd = &cobra.Command{
	Use:   "slabs",
	Short: "Print the active tax tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := loadTables()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), tables)
	},
}

var compareFlags struct {
	income              string
	salary              string
	statutoryInvestment string
	healthInsurance     string
	rentExemption       string
	travelAllowance     string
	standardDeduction   string
	retirementScheme    string
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&tablesPath, "tables", "", "Tax tables YAML (default: TAX_TABLES_PATH or the built-in FY 2024-25 tables)")

	defaults := dto.DefaultDeductionProfile()
	f := compareCmd.Flags()
	f.StringVar(&compareFlags.income, "income", "", "Total annual income (required)")
	f.StringVar(&compareFlags.salary, "salary", "0", "Salary component of the income")
	f.StringVar(&compareFlags.statutoryInvestment, "statutory-investment", defaults.StatutoryInvestment.String(), "Section 80C investments")
	f.StringVar(&compareFlags.healthInsurance, "health-insurance", defaults.HealthInsurance.String(), "Section 80D health insurance")
	f.StringVar(&compareFlags.rentExemption, "rent-exemption", defaults.RentExemption.String(), "HRA exemption")
	f.StringVar(&compareFlags.travelAllowance, "travel-allowance", defaults.TravelAllowance.String(), "LTA exemption")
	f.StringVar(&compareFlags.standardDeduction, "standard-deduction", defaults.StandardDeduction.String(), "Standard deduction under the old regime")
	f.StringVar(&compareFlags.retirementScheme, "retirement-scheme", defaults.RetirementScheme.String(), "Section 80CCD(1B) NPS contribution")
	_ = compareCmd.MarkFlagRequired("income")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(slabsCmd)
}

func loadTables() (*service.TaxTables, error) {
	path := tablesPath
	if path == "" {
		path = os.Getenv("TAX_TABLES_PATH")
	}
	if path == "" {
		return service.DefaultTaxTables(), nil
	}
	return service.LoadTaxTables(path)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if tablesPath != "" {
		cfg.TaxTablesPath = tablesPath
	}

	tables := service.DefaultTaxTables()
	if cfg.TaxTablesPath != "" {
		if tables, err = service.LoadTaxTables(cfg.TaxTablesPath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor, err := client.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ExtractionTimeout, logger)
	if err != nil {
		return err
	}

	documentService := service.NewDocumentService(extractor, service.NewPDFProcessor(), tables, logger)

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(
		logger,
		handler.NewTaxHandler(tables, logger),
		handler.NewAuditHandler(cfg.MaxBatchAudits, cfg.AuditConcurrency, logger),
		handler.NewDocumentHandler(documentService, cfg.MaxFileSize, logger),
	)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			"X-Client-Info",
			"Apikey",
			"X-Request-ID",
		},
		ExposedHeaders: []string{"X-Request-ID"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting ITR audit engine",
			zap.String("port", cfg.ServerPort),
			zap.String("financial_year", tables.FinancialYear),
			zap.Bool("extraction_enabled", cfg.GeminiAPIKey != ""),
			zap.String("log_level", cfg.LogLevel),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runCompare(cmd *cobra.Command, args []string) error {
	tables, err := loadTables()
	if err != nil {
		return err
	}

	var income, salary decimal.Decimal
	var profile dto.DeductionProfile
	amounts := []struct {
		flag  string
		value string
		dst   *decimal.Decimal
	}{
		{"income", compareFlags.income, &income},
		{"salary", compareFlags.salary, &salary},
		{"statutory-investment", compareFlags.statutoryInvestment, &profile.StatutoryInvestment},
		{"health-insurance", compareFlags.healthInsurance, &profile.HealthInsurance},
		{"rent-exemption", compareFlags.rentExemption, &profile.RentExemption},
		{"travel-allowance", compareFlags.travelAllowance, &profile.TravelAllowance},
		{"standard-deduction", compareFlags.standardDeduction, &profile.StandardDeduction},
		{"retirement-scheme", compareFlags.retirementScheme, &profile.RetirementScheme},
	}
	for _, a := range amounts {
		if *a.dst, err = parseAmount(a.flag, a.value); err != nil {
			return err
		}
	}

	comparison := service.CompareRegimes(tables, income, profile, salary)
	logger.Debug("regimes compared",
		zap.String("better_regime", string(comparison.BetterRegime)),
		zap.String("savings", comparison.Savings.String()),
	)
	return writeJSON(cmd.OutOrStdout(), comparison)
}

func runAudit(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open audit request: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req dto.AuditRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return fmt.Errorf("invalid audit request: %w", err)
	}

	result := service.AnalyzeITR(req.ITR, req.AIS, req.Form26AS, req.PreviousITR)
	logger.Debug("audit completed",
		zap.String("risk_score", string(result.RiskScore)),
		zap.Int("issues", len(result.Issues)),
	)
	return writeJSON(cmd.OutOrStdout(), result)
}

func parseAmount(flag, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return d, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
