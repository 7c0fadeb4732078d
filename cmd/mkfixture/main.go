// mkfixture writes a small synthetic reference-rate Parquet fixture for
// tests and local development.
// Usage: go run ./cmd/mkfixture --out testdata/rates-small.parquet --rows 50
package main

import (
	"flag"
	"fmt"
	"os"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/billaudit/internal/model"
)

func strp(s string) *string   { return &s }
func f64p(v float64) *float64 { return &v }

var baseProcedures = []model.ReferenceRateRow{
	{
		ProcedureName: "Complete Blood Count", Category: "pathology",
		Aliases:  strp("CBC|Hemogram"),
		CGHSCode: strp("CGHS-1234"),
		CGHSRate: f64p(150), CGHSMaxPrivate: f64p(200),
	},
	{
		ProcedureName: "Liver Function Test", Category: "pathology",
		Aliases:  strp("LFT"),
		CGHSCode: strp("CGHS-1241"),
		CGHSRate: f64p(300), CGHSMaxPrivate: f64p(400),
	},
	{
		ProcedureName: "MRI Brain", Category: "radiology",
		CGHSCode: strp("CGHS-2205"),
		CGHSRate: f64p(2500), CGHSMaxPrivate: f64p(3000),
	},
	{
		ProcedureName: "X-Ray Chest PA View", Category: "radiology",
		Aliases:  strp("CXR|Chest X-Ray"),
		CGHSCode: strp("CGHS-2101"),
		CGHSRate: f64p(200), CGHSMaxPrivate: f64p(270),
	},
	{
		ProcedureName: "Coronary Angiography", Category: "cardiology",
		PMJAYCode:        strp("PMJAY-CARD-07"),
		CGHSRate:         f64p(12000),
		CGHSMaxPrivate:   f64p(15000),
		PMJAYPackageRate: f64p(11500),
	},
	{
		ProcedureName: "Caesarean Section", Category: "obstetrics",
		PMJAYCode:        strp("PMJAY-OBG-02"),
		PMJAYPackageRate: f64p(9000),
	},
	{
		ProcedureName: "Consultation General Medicine", Category: "opd",
		Aliases:  strp("GP Consultation|Doctor Consultation"),
		CGHSRate: f64p(150), CGHSMaxPrivate: f64p(350),
	},
}

var hospitals = []struct {
	name, city, state, htype, tier string
}{
	{"Apollo Hospital", "Chennai", "Tamil Nadu", "corporate", "metro"},
	{"Fortis Hospital", "Gurugram", "Haryana", "corporate", "metro"},
	{"District Civil Hospital", "Nashik", "Maharashtra", "government", "tier_2"},
}

func main() {
	out := flag.String("out", "testdata/rates-small.parquet", "output parquet")
	maxRows := flag.Int("rows", 50, "max rows to output")
	flag.Parse()

	var rows []model.ReferenceRateRow
	for len(rows) < *maxRows {
		for i, base := range baseProcedures {
			if len(rows) >= *maxRows {
				break
			}
			row := base
			// Every third procedure carries hospital registry columns.
			if i%3 == 0 {
				h := hospitals[len(rows)%len(hospitals)]
				row.HospitalName = strp(h.name)
				row.HospitalCity = strp(h.city)
				row.HospitalState = strp(h.state)
				row.HospitalType = strp(h.htype)
				row.CityTier = strp(h.tier)
			}
			rows = append(rows, row)
		}
	}

	outFile, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	writer := goparquet.NewGenericWriter[model.ReferenceRateRow](outFile)
	if _, err := writer.Write(rows); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close writer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(rows), *out)
}
