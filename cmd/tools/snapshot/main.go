package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"foc-inventory-api/internal/inventory"
	"foc-inventory-api/internal/sheets"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: snapshot --file=path.xlsx [--layout=configs/sheets.yaml] [--tz=Asia/Jakarta] [--top=10]")
		os.Exit(1)
	}

	var filePath, layoutPath string
	tz := "Asia/Jakarta"
	top := 10

	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "--file=") {
			filePath = strings.TrimPrefix(arg, "--file=")
		} else if strings.HasPrefix(arg, "--layout=") {
			layoutPath = strings.TrimPrefix(arg, "--layout=")
		} else if strings.HasPrefix(arg, "--tz=") {
			tz = strings.TrimPrefix(arg, "--tz=")
		} else if strings.HasPrefix(arg, "--top=") {
			if _, err := fmt.Sscanf(strings.TrimPrefix(arg, "--top="), "%d", &top); err != nil {
				log.Fatalf("Invalid top: %v", err)
			}
		}
	}

	if filePath == "" {
		fmt.Println("Error: file is required")
		os.Exit(1)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	layout, err := sheets.LoadLayout(layoutPath)
	if err != nil {
		log.Fatalf("Layout error: %v", err)
	}

	store, err := sheets.NewXLSXStore(filePath)
	if err != nil {
		log.Fatalf("Failed to open workbook: %v", err)
	}

	snap, err := inventory.NewReader(store, layout).Snapshot(context.Background())
	if err != nil {
		log.Fatalf("Failed to read inventory: %v", err)
	}

	summary := inventory.Summarize(snap.Items)

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("INVENTORY SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total stock: %d\n", summary.TotalStock)
	fmt.Printf("Available: %d\n", summary.Available)
	fmt.Printf("On KOL: %d\n", summary.OnKOL)
	fmt.Printf("Gifted: %d\n", summary.Gifted)
	fmt.Printf("Pending returns: %d\n", summary.PendingReturns)

	fmt.Println("\nModels:")
	for i, g := range inventory.ByModel(snap.Items) {
		if i == top {
			break
		}
		fmt.Printf("  %s: total=%d, available=%d, loaned=%d, missing=%d\n",
			g.Name, g.Total, g.Available, g.Loaned, g.Missing)
	}

	fmt.Println("\nReturns by urgency:")
	for i, g := range inventory.ByReturnUrgency(snap.Items, time.Now(), loc) {
		if i == top {
			break
		}
		flag := ""
		switch {
		case g.ASAP:
			flag = " [ASAP]"
		case g.Overdue:
			flag = " [OVERDUE]"
		}
		fmt.Printf("  %s x%d, holder=%s, planned=%s%s\n",
			g.UnitName, g.GroupCount, g.OnHolder, g.PlannedReturnDate, flag)
	}
}
