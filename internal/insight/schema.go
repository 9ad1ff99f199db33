package insight

// Field kinds used by the positional import schema.
const (
	KindIgnored = iota
	KindInt
	KindString
	KindNullableString
	KindArray
)

// Column describes one positional CSV field.
type Column struct {
	Position int
	Field    string
	Kind     int
}

// ImportSchemaVersion identifies the positional layout ImportSchema encodes.
// Bump it whenever positions move.
const ImportSchemaVersion = 1

// ImportSchema is the positional field order read by the importer.
// Position 0 holds the stored id and is never imported.
var ImportSchema = []Column{
	{0, "id", KindIgnored},
	{1, "creationNumber", KindInt},
	{2, "subject", KindString},
	{3, "insightId", KindString},
	{4, "status", KindString},
	{5, "startDate", KindNullableString},
	{6, "updateDate", KindNullableString},
	{7, "endDate", KindNullableString},
	{8, "type", KindString},
	{9, "mainCategory", KindString},
	{10, "subCategory", KindString},
	{11, "dataCategory", KindString},
	{12, "targetBanks", KindArray},
	{13, "logicFormula", KindString},
	{14, "targetTables", KindArray},
	{15, "targetUsers", KindString},
	{16, "relatedInsight", KindString},
	{17, "revenueCategory", KindString},
	{18, "iconType", KindString},
	{19, "score", KindString},
	{20, "relevancePolicy", KindString},
	{21, "relevanceScore", KindString},
	{22, "displayCount", KindInt},
	{23, "selectCount", KindInt},
	{24, "nextPolicy", KindString},
	{25, "nextValue", KindString},
	{26, "appLink", KindString},
	{27, "externalLink", KindString},
	{28, "teaserImage", KindNullableString},
	{29, "storyImages", KindArray},
	{30, "maintenanceDate", KindString},
	{31, "maintenanceReason", KindString},
	{32, "remarks", KindString},
	{33, "updatedBy", KindString},
}

// ExportHeaderVersion identifies the label set in ExportHeader. It is
// versioned separately from ImportSchemaVersion; the importer never reads
// the header line.
const ExportHeaderVersion = 1

// ExportHeader holds the display labels written as the first export line.
var ExportHeader = []string{
	"ID", "作成番号", "インサイト件名", "インサイトID", "表示ステータス",
	"配信開始日", "更新日", "配信停止日", "インサイトタイプ", "メインカテゴリ",
	"サブカテゴリ", "データカテゴリ", "対象銀行", "表示ロジック", "使用データテーブル",
	"対象ユーザー", "関連インサイト", "収益カテゴリ", "アイコンタイプ", "スコア",
	"関連性ポリシー", "関連性スコア", "表示回数", "選択回数", "次回表示ポリシー",
	"次回表示設定値", "アプリ内遷移先", "外部遷移先", "ティーザー画像", "ストーリー画像",
	"次回メンテナンス日", "メンテナンス理由", "備考", "更新者",
}
