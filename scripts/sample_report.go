//go:build ignore

// This script writes a sample df report in every format and dumps the Excel
// sheets for manual verification.
// Run with: go run scripts/sample_report.go
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"dfinspect/internal/model"
	"dfinspect/internal/report"
)

func main() {
	tz, _ := time.LoadLocation("Asia/Shanghai")
	registry := report.NewRegistry(tz, "")

	paths, err := registry.WriteAll(sampleResult(), registry.GetAll(), "sample_df_report")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}
	for _, p := range paths {
		fmt.Println("✅", p)
		if strings.HasSuffix(p, ".xlsx") {
			dump(p)
		}
	}
}

func dump(path string) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println(" ", sheet)
		fmt.Println("═══════════════════════════════════════")
		rows, _ := f.GetRows(sheet)
		for _, row := range rows {
			fmt.Println("  " + strings.Join(row, " | "))
		}
		fmt.Println()
	}
}

func sampleResult() *model.InspectionResult {
	now := time.Now()
	result := model.NewInspectionResult(now)
	result.Version = "sample"

	web := model.NewHostResult(&model.HostMeta{Ident: "web-01", Hostname: "web-01", IP: "192.168.1.10"})
	ok := model.NewVerdict(model.StateOK, "Used: 42.17% - 8.43 GiB of 20.0 GiB")
	web.AddItem(&model.ItemResult{Item: model.Item{Name: "/", Kind: model.ItemKindFilesystem}, Verdict: ok, SizeMB: 20480, UsedPercent: 42.17})

	warn := model.NewVerdict(model.StateWarn, "Used: 83.02% - 166 GiB of 200 GiB, warn/crit at 80.00%/90.00% used (!)")
	warn.AddPart(model.StateOK, "trend per 1 day 0 hours: +2.00 GiB")
	web.AddItem(&model.ItemResult{Item: model.Item{Name: "/data", Kind: model.ItemKindFilesystem}, Verdict: warn, SizeMB: 204800, UsedPercent: 83.02})
	result.AddHost(web)

	db := model.NewHostResult(&model.HostMeta{Ident: "db-01", Hostname: "db-01", IP: "192.168.1.20"})
	crit := model.NewVerdict(model.StateCrit, "Used: 96.50% - 1.93 TiB of 2.00 TiB, warn/crit at 85.00%/92.00% used (!!)")
	crit.AddLine("3 filesystems")
	db.AddItem(&model.ItemResult{
		Item:        model.Item{Name: "mysql", Kind: model.ItemKindGroup, Patterns: &model.GroupPatterns{Include: []string{"/mysql/*"}}},
		Verdict:     crit,
		SizeMB:      2097152,
		UsedPercent: 96.5,
	})
	result.AddHost(db)

	cache := model.NewHostResult(&model.HostMeta{Ident: "cache-01", Hostname: "cache-01", IP: "192.168.1.30"})
	cache.MarkSkipped("skip this cycle: no size data")
	result.AddHost(cache)

	result.Finalize(now.Add(1200 * time.Millisecond))
	return result
}
