package enummap

// Built-in lookup tables. Keys are pre-normalized (lower case, trimmed, NFC).
// Labels come from the NACC enum_type CSV tables plus common free-text
// variants seen in declarations.

var assetTypeTable = map[string]int{
	// land documents
	"โฉนด":          1,
	"โฉนดที่ดิน":    1,
	"ส.ป.ก":         2,
	"ส.ป.ก 4-01":    3,
	"น.ส.3":         4,
	"น.ส.3ก":        5,
	"ภบท.5":         6,
	"ห้องชุด (อ.ช.2)": 7,
	"สัญญาซื้อขาย":  8,
	"น.ค.3":         9,
	"ที่ดิน":        1,
	"land":          1,

	// buildings
	"บ้าน":           10,
	"อาคาร":          11,
	"ตึก":            12,
	"ห้องชุด":        13,
	"คอนโด":          14,
	"คอนโดมิเนียม":   14,
	"หอพัก":          15,
	"ลานจอดรถ":       16,
	"โรงงาน":         17,
	"โรงเรือน":       10,
	"สิ่งปลูกสร้าง":  10,
	"building":       10,

	// vehicles
	"รถยนต์":        18,
	"จักรยานยนต์":   19,
	"รถจักรยานยนต์": 19,
	"เรือยนต์":      20,
	"เครื่องบิน":    21,
	"ยานพาหนะ":      18,
	"vehicle":       18,

	// rights and concessions
	"กรมธรรม์":     22,
	"สัญญา":        23,
	"สมาชิก":       24,
	"กองทุน":       25,
	"เงินสงเคราะห์": 26,
	"ป้ายประมูล":   27,
	"สิทธิ":        22,
	"สัมปทาน":      22,
	"rights":       22,

	// other assets
	"กระเป๋า":              28,
	"อาวุธปืน":             29,
	"นาฬิกา":               30,
	"เครื่องประดับ":        31,
	"วัตถุมงคล":            32,
	"ทองคำ":                33,
	"งานศิลปะ โบราณวัตถุ":  34,
	"ของสะสมอื่น":          35,
	"ทรัพย์สินอื่น":        28,
	"other":                28,

	// per-band catch-alls
	"ที่ดินอื่นๆ":        36,
	"สิ่งปลูกสร้างอื่นๆ": 37,
	"ยานพาหนะอื่นๆ":      38,
	"สิทธิอื่นๆ":         39,
}

var relationshipTable = map[string]int{
	"บิดา":          1,
	"พ่อ":           1,
	"father":        1,
	"มารดา":         2,
	"แม่":           2,
	"mother":        2,
	"พี่":           3,
	"น้อง":          3,
	"พี่น้อง":       3,
	"sibling":       3,
	"บุตร":          4,
	"ลูก":           4,
	"child":         4,
	"บิดาคู่สมรส":   5,
	"พ่อสามี":       5,
	"พ่อภรรยา":      5,
	"มารดาคู่สมรส":  6,
	"แม่สามี":       6,
	"แม่ภรรยา":      6,
}

var statementTypeTable = map[string]int{
	"รายได้รวม":       1,
	"รายได้":          1,
	"income":          1,
	"รายจ่ายรวม":      2,
	"รายจ่าย":         2,
	"expense":         2,
	"รายได้-รายจ่าย":  3,
	"net":             3,
	"ทรัพย์สินรวม":    4,
	"ทรัพย์สิน":       4,
	"assets":          4,
	"หนี้สินรวม":      5,
	"หนี้สิน":         5,
	"liabilities":     5,
}

var positionPeriodTable = map[string]int{
	"ตำแหน่งปัจจุบัน":              1,
	"ปัจจุบัน":                     1,
	"current":                      1,
	"ตำแหน่งที่ดำรงอยู่พร้อมกัน":   2,
	"concurrent":                   2,
	"ตำแหน่งในอดีต":                3,
	"อดีต":                         3,
	"past":                         3,
}
