package i18n

import "github.com/reoring/rowskema"

// Catalog maps message codes to templates. Templates substitute {var} with a
// variable and ${expr} with the result of an expr-lang expression over the
// variables.
type Catalog map[string]string

// English is the built-in English catalogue.
var English = Catalog{
	rowskema.CodeRequired:      "a value is required",
	rowskema.CodeTypeMismatch:  "'{validatedValue}' is not a valid {type}",
	rowskema.CodeUnique:        "duplicates the value in line {duplicatedLineNumber}",
	rowskema.CodeUniqueHash:    "duplicates the value in line {duplicatedLineNumber}",
	rowskema.CodeEquals:        "must be one of [{equalsValues}]",
	rowskema.CodePattern:       "does not match ${description != '' ? description : regex}",
	rowskema.CodeLengthMin:     "length must be at least {min} (was {length})",
	rowskema.CodeLengthMax:     "length must be at most {max} (was {length})",
	rowskema.CodeLengthBetween: "length must be between {min} and {max} (was {length})",
	rowskema.CodeLengthExact:   "length must be one of {lengths} (was {length})",
	rowskema.CodeNumberMin:     "must be ${inclusive ? 'at least' : 'greater than'} {min}",
	rowskema.CodeNumberMax:     "must be ${inclusive ? 'at most' : 'less than'} {max}",
	rowskema.CodeNumberRange:   "must be between {min} and {max}${inclusive ? '' : ' exclusive'}",
	rowskema.CodeDateTimeMin:   "must be ${inclusive ? 'on or after' : 'after'} {min}",
	rowskema.CodeDateTimeMax:   "must be ${inclusive ? 'on or before' : 'before'} {max}",
	rowskema.CodeDateTimeRange: "must be between {min} and {max}${inclusive ? '' : ' exclusive'}",
	rowskema.CodeWordForbid:    "contains forbidden words: {words}",
	rowskema.CodeWordRequire:   "must contain the words: {words}",
	rowskema.CodeRowRule:       "row rule failed",

	rowskema.CodeColumnSize:            "expected {expectedSize} columns, found {actualSize}",
	rowskema.CodeFixedSizeInsufficient: "column needs width {declaredSize}, found {actualSize}",
	rowskema.CodeFixedSizeOver:         "'{validatedValue}' is {actualSize} wide, over the column width {declaredSize}",
	rowskema.CodeFixedSizeLineBreak:    "value contains a line break",
	rowskema.CodeHeaderSize:            "expected {expectedSize} header columns, found {actualSize}",
	rowskema.CodeHeaderMismatch:        "header [{joinedActualHeaders}] does not match [{joinedExpectedHeaders}]",
}

// Japanese is the built-in Japanese catalogue.
var Japanese = Catalog{
	rowskema.CodeRequired:      "値を入力してください",
	rowskema.CodeTypeMismatch:  "'{validatedValue}' は{type}として解析できません",
	rowskema.CodeUnique:        "{duplicatedLineNumber}行目の値と重複しています",
	rowskema.CodeUniqueHash:    "{duplicatedLineNumber}行目の値と重複しています",
	rowskema.CodeEquals:        "[{equalsValues}] のいずれかを入力してください",
	rowskema.CodePattern:       "${description != '' ? description : regex} の形式で入力してください",
	rowskema.CodeLengthMin:     "{min}文字以上で入力してください (現在{length}文字)",
	rowskema.CodeLengthMax:     "{max}文字以内で入力してください (現在{length}文字)",
	rowskema.CodeLengthBetween: "{min}から{max}文字の間で入力してください (現在{length}文字)",
	rowskema.CodeLengthExact:   "{lengths}文字のいずれかで入力してください (現在{length}文字)",
	rowskema.CodeNumberMin:     "{min}${inclusive ? '以上' : 'より大きい値'}を入力してください",
	rowskema.CodeNumberMax:     "{max}${inclusive ? '以下' : '未満'}を入力してください",
	rowskema.CodeNumberRange:   "{min}から{max}の範囲で入力してください",
	rowskema.CodeDateTimeMin:   "{min}${inclusive ? '以降' : 'より後'}の日時を入力してください",
	rowskema.CodeDateTimeMax:   "{max}${inclusive ? '以前' : 'より前'}の日時を入力してください",
	rowskema.CodeDateTimeRange: "{min}から{max}の範囲の日時を入力してください",
	rowskema.CodeWordForbid:    "禁止語句 {words} が含まれています",
	rowskema.CodeWordRequire:   "語句 {words} が含まれていません",
	rowskema.CodeRowRule:       "行の検証に失敗しました",

	rowskema.CodeColumnSize:            "列数が不正です (期待値 {expectedSize}, 実際 {actualSize})",
	rowskema.CodeFixedSizeInsufficient: "桁数が不足しています (定義 {declaredSize}, 実際 {actualSize})",
	rowskema.CodeFixedSizeOver:         "'{validatedValue}' は桁数 {declaredSize} を超えています (実際 {actualSize})",
	rowskema.CodeFixedSizeLineBreak:    "値に改行が含まれています",
	rowskema.CodeHeaderSize:            "見出しの列数が不正です (期待値 {expectedSize}, 実際 {actualSize})",
	rowskema.CodeHeaderMismatch:        "見出し [{joinedActualHeaders}] が [{joinedExpectedHeaders}] と一致しません",
}
