// Command checkalerts runs one alert generation pass. Schedule it daily
// via cron:
//
//	checkalerts [-resolve] [-verbose]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"aeroclub-service/internal/infrastructure/config"
	"aeroclub-service/internal/infrastructure/persistence"
	clubRepo "aeroclub-service/internal/interface/repository"
	"aeroclub-service/internal/usecase"
	"aeroclub-service/pkg/logger"
	"aeroclub-service/pkg/metrics"
)

func main() {
	resolve := flag.Bool("resolve", false, "also resolve outdated alerts")
	verbose := flag.Bool("verbose", false, "print per-category details")
	flag.Parse()

	log := logger.NewNop() // stdout is the command's interface

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	thresholdDefaults, err := config.LoadThresholdDefaults(cfg.ThresholdsFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load alert thresholds:", err)
		os.Exit(1)
	}

	gormDB, err := persistence.NewPostgres(cfg.PostgresURI)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to connect to PostgreSQL:", err)
		os.Exit(1)
	}

	memberRepository := clubRepo.NewGormMemberRepository(gormDB)
	aircraftRepository := clubRepo.NewGormAircraftRepository(gormDB)
	alertRepository := clubRepo.NewGormAlertRepository(gormDB)
	alertConfigRepository := clubRepo.NewGormAlertConfigRepository(gormDB)

	generator := usecase.NewAlertGenerator(
		memberRepository, aircraftRepository, alertRepository,
		alertConfigRepository, thresholdDefaults,
		metrics.NewMetrics(cfg.MetricsNamespace), log)

	ctx := context.Background()

	fmt.Println("[*] Checking alerts...")

	report, err := generator.RunAllChecks(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "alert scan failed:", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("  - Medical certificates : %d alert(s)\n", report.Created["medical"])
		fmt.Printf("  - Licenses : %d alert(s)\n", report.Created["license"])
		fmt.Printf("  - Recent experience : %d alert(s)\n", report.Created["experience"])
		fmt.Printf("  - Account balances : %d alert(s)\n", report.Created["balance"])
		fmt.Printf("  - Aircraft maintenance : %d alert(s)\n", report.Created["maintenance"])
	}

	fmt.Printf("[OK] %d new alert(s) created\n", report.Total)

	if *resolve {
		resolved, err := generator.ResolveOutdated(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "alert resolution failed:", err)
			os.Exit(1)
		}
		fmt.Printf("[OK] %d outdated alert(s) resolved\n", resolved)
	}

	fmt.Println("Done.")
}
