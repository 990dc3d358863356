package extract

import "fmt"

// systemPrompt is shared by every extraction call and carries the cache
// breakpoint: it is identical across batches and documents.
const systemPrompt = `You are an expert at extracting structured data from Thai NACC asset declaration documents (เอกสารบัญชีทรัพย์สินและหนี้สิน).
You must extract ALL information accurately and return it as valid JSON.
IMPORTANT: Convert all Buddhist Era (พ.ศ.) years to Common Era (ค.ศ.) by subtracting 543.
Use null for missing or unclear fields. Be precise with numbers and Thai text.
All date, month, and year fields are integers without leading zeros.`

const assetTypeReference = `Asset Type ID Reference:
- Land (ที่ดิน): 1=โฉนด, 2=ส.ป.ก, 3=ส.ป.ก4-01, 4=น.ส.3, 5=น.ส.3ก, 6=ภบท.5, 7=ห้องชุด(อ.ช.2), 8=สัญญาซื้อขาย, 9=น.ค.3, 36=อื่นๆ
- Building (โรงเรือน): 10=บ้าน/บ้านเดี่ยว, 11=อาคาร, 12=ตึก, 13=ห้องชุด/คอนโด/เพนท์เฮ้าส์, 14=คอนโด, 15=หอพัก, 16=ลานจอดรถ, 17=โรงงาน, 37=อื่นๆ (ทาวน์เฮ้าส์ ใช้ 37 และใส่ asset_type_other="ทาวน์เฮ้าส์")
- Vehicle (ยานพาหนะ): 18=รถยนต์, 19=จักรยานยนต์, 20=เรือยนต์, 21=เครื่องบิน, 38=อื่นๆ
- Rights (สิทธิและสัมปทาน): 22=กรมธรรม์/ประกันภัย, 23=สัญญา, 24=สมาชิก, 25=กองทุน, 26=เงินสงเคราะห์, 27=ป้ายประมูล, 39=อื่นๆ (เงินสงเคราะห์ชราภาพมาตรา 33/39 ใช้ 39 และใส่ asset_type_other="เงินสงเคราะห์")
- Other (ทรัพย์สินอื่น): 28=กระเป๋า, 29=อาวุธปืน, 30=นาฬิกา, 31=เครื่องประดับ, 32=วัตถุมงคล, 33=ทองคำ, 34=งานศิลปะ, 35=ของสะสม`

const assetShape = `{
    "index": sequential integer starting from 1,
    "asset_type_id": integer (1-39, see reference),
    "asset_type_main": "ที่ดิน/โรงเรือนและสิ่งปลูกสร้าง/ยานพาหนะ/สิทธิและสัมปทาน/ทรัพย์สินอื่น",
    "asset_type_sub": "sub-type like โฉนด, รถยนต์",
    "asset_type_other": "for 'other' types (36,37,38,39) describe what it is" or null,
    "asset_name": "FULL description with details (e.g. กระเป๋า Hermes รุ่น Himalayan Birkin, สิทธิในกรมธรรม์ประกันภัย เลขที่ XXX บริษัท YYY)",
    "date_acquiring_type_id": 1 (exact date) / 2 (approximate) / 3 (not specified) / 4 (none),
    "acquiring_date": integer day or null,
    "acquiring_month": integer month or null,
    "acquiring_year": integer YYYY CE or null,
    "date_ending_type_id": 1/2/3/4,
    "ending_date": integer day or null,
    "ending_month": integer month or null,
    "ending_year": integer YYYY CE or null,
    "valuation": float or null,
    "owner_by_submitter": true/false,
    "owner_by_spouse": true/false,
    "owner_by_child": true/false,
    "land_info": {"land_doc_number": "เลขที่โฉนด", "rai": float, "ngan": float (0-3, since 4 ngan = 1 rai), "sq_wa": float, "sub_district": "...", "district": "...", "province": "..."} or null if not land,
    "building_info": {"building_doc_number": "...", "sub_district": "...", "district": "...", "province": "..."} or null if not building,
    "vehicle_info": {"registration_number": "...", "vehicle_brand": "...", "vehicle_model": "...", "registration_province": "..."} or null if not vehicle,
    "other_info": {"count": integer, "unit": "หน่วย"} or null if not an other-asset
}`

// fullPrompt asks for every section of the declaration. Used for batch 0,
// which covers the opening pages where the identity and statement sections
// live.
func fullPrompt(naccID, submitterID int) string {
	return fmt.Sprintf(`Analyze this Thai NACC asset declaration document carefully.
Extract ALL the following information and return as a single JSON object.

NACC ID: %d
Submitter ID: %d

Return JSON with this exact structure:
{
    "submitter": {
        "title": "คำนำหน้า (นาย/นาง/นางสาว/พลเอก)",
        "first_name": "ชื่อ",
        "last_name": "นามสกุล",
        "age": integer or null,
        "status": "สถานะการสมรส (สมรส/โสด/หย่า)",
        "status_date": integer day or null,
        "status_month": integer month or null,
        "status_year": integer YYYY CE or null,
        "sub_district": "ตำบล/แขวง",
        "district": "อำเภอ/เขต",
        "province": "จังหวัด",
        "post_code": "รหัสไปรษณีย์" or null
    },
    "submitter_old_names": [
        {"index": integer from 1, "title": "...", "first_name": "...", "last_name": "..."}
    ],
    "submitter_positions": [
        {
            "position_period_type_id": 1=current (ตำแหน่งปัจจุบัน), 2=concurrent, 3=past,
            "index": sequential integer starting from 1,
            "position": "ตำแหน่ง",
            "position_category_type_id": integer 1-6,
            "workplace": "หน่วยงาน",
            "workplace_location": "สถานที่ทำงาน",
            "start_date": integer or null, "start_month": integer or null, "start_year": integer YYYY CE or null,
            "end_date": integer or null, "end_month": integer or null, "end_year": integer YYYY CE or null,
            "note": "หมายเหตุ" or null
        }
    ],
    "spouse": { same shape as "submitter" without the address fields } or null if no spouse,
    "spouse_old_names": [ same shape as "submitter_old_names" ],
    "spouse_positions": [
        { same shape as "submitter_positions"; position_period_type_id is always 2; "workplace_location" uses the format ตำบลXXX อำเภอYYY จังหวัดZZZ ZZZZZ }
    ],
    "relatives": [
        {
            "index": sequential integer starting from 1,
            "relationship_id": 1=บิดา, 2=มารดา, 3=พี่น้อง, 4=บุตร, 5=บิดาคู่สมรส, 6=มารดาคู่สมรส,
            "title": "คำนำหน้า", "first_name": "ชื่อ", "last_name": "นามสกุล",
            "age": integer or null,
            "occupation": "อาชีพ" or null,
            "workplace": "หน่วยงาน" or null,
            "is_deceased": true/false
        }
    ],
    "statements": [
        {
            "statement_type_id": 1=รายได้รวม, 2=รายจ่ายรวม, 3=รายได้-รายจ่าย, 4=ทรัพย์สินรวม, 5=หนี้สินรวม,
            "valuation_submitter": float or null (column "ผู้ยื่น"),
            "valuation_spouse": float or null (column "คู่สมรส"),
            "valuation_child": float or null (column "บุตรที่ยังไม่บรรลุนิติภาวะ")
        }
    ],
    "statement_details": [
        {
            "statement_detail_type_id": integer (income 1-3, expense 5-7, asset summaries 8-16, liability summaries 18-20),
            "index": sequential integer from 1 within each type,
            "detail": "รายละเอียด (เงินเดือน, ดอกเบี้ยเงินฝาก, ...)",
            "valuation_submitter": float or null,
            "valuation_spouse": float or null,
            "valuation_child": float or null,
            "note": "หมายเหตุ" or null
        }
    ],
    "assets": [ %s ]
}

%s

CRITICAL: For statements, match values to their column HEADERS, not positions. Type 3 uses the row labeled "รายได้-รายจ่าย" or "รวม" from the summary table, NOT a calculated value.

IMPORTANT:
1. Extract ALL assets listed in all pages
2. Convert Buddhist Era years (พ.ศ.) to CE by subtracting 543
3. Include type-specific info (land_info, building_info, vehicle_info, other_info) based on asset type
4. Use true/false for owner fields based on checkboxes in the document
5. Return ONLY valid JSON, no explanatory text`, naccID, submitterID, assetShape, assetTypeReference)
}

// assetsOnlyPrompt continues the asset tables on later batches. Indices
// restart at 1; the merge step renumbers them globally.
func assetsOnlyPrompt(naccID, submitterID int) string {
	return fmt.Sprintf(`Extract ALL assets (ทรัพย์สิน) from these pages of a Thai NACC asset declaration document.
These pages continue the asset section; ignore any other sections.
NACC ID: %d, Submitter ID: %d

Return a JSON object:
{
    "assets": [ %s ]
}

%s

Convert พ.ศ. to CE by subtracting 543.
Return ONLY valid JSON. Use {"assets": []} if no assets appear on these pages.`, naccID, submitterID, assetShape, assetTypeReference)
}
