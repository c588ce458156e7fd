package repositories

import (
	"strconv"

	"github.com/blogem/caseledger/models"
)

// demoHeaders are the leading headers of the real case sheet
var demoHeaders = map[string]string{
	models.FieldSerial:       "م",
	"company":                "الشركة",
	"accountNumber":          "رقم الحساب",
	models.FieldClientName:   "اسم العميل",
	models.FieldNationalID:   "الرقم القومي",
	"legalAgent":             "الوكيل القانوني",
	"litigationLevel":        "مستوى التقاضي",
	"receiptDateFromCompany": "تاريخ الاستلام من الشركة",
}

var demoRecords = []models.Record{
	{
		Serial: 69,
		Values: map[string]string{
			"company":                 "فاليو",
			"accountNumber":           "M00200078606",
			"clientName":              "احمد مختار العراقي احمد",
			"nationalId":              "29311252103591",
			"legalAgent":              "qima",
			"litigationLevel":         "احكام",
			"receiptDateFromCompany":  "2024-11-25",
			"documentValue":           "14,929",
			"reportDate":              "2024-12-07",
			"crimeNumber":             "2024/23791",
			"reportType":              "جنحة",
			"governorate":             "الدقهليه",
			"district":                "مركز المنصورة",
			"firstSessionDate":        "2025-02-23",
			"ruling":                  "غ/شهرين +ك200",
			"inventoryNumber":         "2025/4989",
			"firstInstanceCourtNotes": "تم تقديم اصل الايصال 23-2-2025",
			"updateDate":              "2025-08-03",
			"archived":                "أرشيف",
			"createdBy":               "sheet",
		},
	},
	{
		Serial: 71,
		Values: map[string]string{
			"company":                "فاليو",
			"accountNumber":          "M00200067466",
			"clientName":             "حازم حسن إبراهيم حسن",
			"nationalId":             "28607090101592",
			"legalAgent":             "qima",
			"litigationLevel":        "احكام",
			"receiptDateFromCompany": "2024-11-25",
			"documentValue":          "24,755",
			"reportDate":             "2024-11-30",
			"crimeNumber":            "2024/13399",
			"reportType":             "جنحة",
			"governorate":            "الجيزة",
			"district":               "المنيرة الغربية",
			"firstSessionDate":       "2024-12-25",
			"ruling":                 "سنه+ك500",
			"inventoryNumber":        "2024/9758",
			"updateDate":             "2025-06-10",
			"archived":               "أرشيف",
			"createdBy":              "sheet",
		},
	},
	{
		Serial: 75,
		Values: map[string]string{
			"company":                "فاليو",
			"accountNumber":          "M00200102506",
			"clientName":             "نور يحي سيد محمد إبراهيم",
			"nationalId":             "29601061400683",
			"legalAgent":             "qima",
			"litigationLevel":        "احكام",
			"receiptDateFromCompany": "2025-02-03",
			"documentValue":          "9,094",
			"reportDate":             "2025-03-03",
			"crimeNumber":            "2025/3149",
			"createdBy":              "sheet",
		},
	},
}

// SeedDemoSheet fills a memory store with a header row and sample cases
func SeedDemoSheet(store *MemoryTabularStore, sheet string, schema *models.Schema) {
	header := make([]string, schema.Width())
	for _, col := range schema.Columns() {
		if label, ok := demoHeaders[col.Field]; ok {
			header[col.Index] = label
		} else {
			header[col.Index] = col.Field
		}
	}

	rows := [][]string{header}
	for _, rec := range demoRecords {
		row := make([]string, schema.Width())
		row[0] = strconv.Itoa(rec.Serial)
		for field, value := range rec.Values {
			if col, ok := schema.Lookup(field); ok {
				row[col.Index] = value
			}
		}
		rows = append(rows, row)
	}

	store.SetRows(sheet, rows)
}
