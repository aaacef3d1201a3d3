package eit

// Static classification tables from the broadcast SI standard. Major 0xE is
// not a genre: its user nibbles carry program attributes and are remapped
// through programAttributes.
const genreMajorExtended = 0xe

var genreMajors = map[byte]string{
	0x0: "ニュース・報道",
	0x1: "スポーツ",
	0x2: "情報・ワイドショー",
	0x3: "ドラマ",
	0x4: "音楽",
	0x5: "バラエティ",
	0x6: "映画",
	0x7: "アニメ・特撮",
	0x8: "ドキュメンタリー・教養",
	0x9: "劇場・公演",
	0xa: "趣味・教育",
	0xb: "福祉",
	0xf: "その他",
}

var genreMinors = map[byte][16]string{
	0x0: {"定時・総合", "天気", "特集・ドキュメント", "政治・国会", "経済・市況", "海外・国際", "解説", "討論・会談", "報道特番", "ローカル・地域", "交通", "", "", "", "", "その他"},
	0x1: {"スポーツニュース", "野球", "サッカー", "ゴルフ", "その他の球技", "相撲・格闘技", "オリンピック・国際大会", "マラソン・陸上・水泳", "モータースポーツ", "マリン・ウィンタースポーツ", "競馬・公営競技", "", "", "", "", "その他"},
	0x2: {"芸能・ワイドショー", "ファッション", "暮らし・住まい", "健康・医療", "ショッピング・通販", "グルメ・料理", "イベント", "番組紹介・お知らせ", "", "", "", "", "", "", "", "その他"},
	0x3: {"国内ドラマ", "海外ドラマ", "時代劇", "", "", "", "", "", "", "", "", "", "", "", "", "その他"},
	0x4: {"国内ロック・ポップス", "海外ロック・ポップス", "クラシック・オペラ", "ジャズ・フュージョン", "歌謡曲・演歌", "ライブ・コンサート", "ランキング・リクエスト", "カラオケ・のど自慢", "民謡・邦楽", "童謡・キッズ", "民族音楽・ワールドミュージック", "", "", "", "", "その他"},
	0x5: {"クイズ", "ゲーム", "トークバラエティ", "お笑い・コメディ", "音楽バラエティ", "旅バラエティ", "料理バラエティ", "", "", "", "", "", "", "", "", "その他"},
	0x6: {"洋画", "邦画", "アニメ", "", "", "", "", "", "", "", "", "", "", "", "", "その他"},
	0x7: {"国内アニメ", "海外アニメ", "特撮", "", "", "", "", "", "", "", "", "", "", "", "", "その他"},
	0x8: {"社会・時事", "歴史・紀行", "自然・動物・環境", "宇宙・科学・医学", "カルチャー・伝統文化", "文学・文芸", "スポーツ", "ドキュメンタリー全般", "インタビュー・討論", "", "", "", "", "", "", "その他"},
	0x9: {"現代劇・新劇", "ミュージカル", "ダンス・バレエ", "落語・演芸", "歌舞伎・古典", "", "", "", "", "", "", "", "", "", "", "その他"},
	0xa: {"旅・釣り・アウトドア", "園芸・ペット・手芸", "音楽・美術・工芸", "囲碁・将棋", "麻雀・パチンコ", "車・オートバイ", "コンピュータ・TVゲーム", "会話・語学", "幼児・小学生", "中学生・高校生", "大学生・受験", "生涯教育・資格", "教育問題", "", "", "その他"},
	0xb: {"高齢者", "障害者", "社会福祉", "ボランティア", "手話", "文字(字幕)", "音声解説", "", "", "", "", "", "", "", "", "その他"},
	0xf: {"", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "その他"},
}

func genreMinor(major, minor byte) string {
	row, ok := genreMinors[major]
	if !ok || minor > 0x0f || row[minor] == "" {
		return "その他"
	}
	return row[minor]
}

// Program attributes carried under the extended major, keyed by the user
// nibble pair.
const attributeMajor = "番組付属情報"

var programAttributes = map[byte]string{
	0x00: "中止の可能性あり",
	0x01: "延長の可能性あり",
	0x02: "中断の可能性あり",
	0x03: "同一シリーズ別話数放送の可能性あり",
	0x04: "編成未定枠",
	0x05: "繰り上げの可能性あり",
	0x10: "中断ニュースあり",
	0x11: "臨時サービスあり",
	0x20: "3D映像あり",
}

// Video component classification.
type videoComponent struct {
	typ        string
	resolution string
}

var videoComponents = map[byte]videoComponent{
	0x01: {"480i[4:3]", "720x480"},
	0x03: {"480i[16:9]", "720x480"},
	0x04: {"480i[>16:9]", "720x480"},
	0xa1: {"480p[4:3]", "720x480"},
	0xa3: {"480p[16:9]", "720x480"},
	0xa4: {"480p[>16:9]", "720x480"},
	0xb1: {"1080i[4:3]", "1920x1080"},
	0xb3: {"1080i[16:9]", "1920x1080"},
	0xb4: {"1080i[>16:9]", "1920x1080"},
	0xc1: {"720p[4:3]", "1280x720"},
	0xc3: {"720p[16:9]", "1280x720"},
	0xd1: {"240p", "352x240"},
	0xe1: {"1080p[4:3]", "1920x1080"},
	0xe3: {"1080p[16:9]", "1920x1080"},
	0xe4: {"1080p[>16:9]", "1920x1080"},
	0xf1: {"180p", "320x180"},
}

func videoCodec(streamContent byte) string {
	switch streamContent {
	case 0x1:
		return "MPEG-2"
	case 0x5:
		return "H.264"
	case 0x9:
		return "H.265"
	default:
		return ""
	}
}

// Audio component modes.
const audioModeDualMono = 0x02

var audioModes = map[byte]string{
	0x01: "モノラル",
	0x02: "デュアルモノ",
	0x03: "ステレオ",
	0x07: "3/1モード",
	0x08: "3/2モード",
	0x09: "5.1ch",
	0x0c: "7.1ch",
	0x0d: "22.2ch",
	0x40: "視覚障害者用音声解説",
	0x41: "聴覚障害者用音声",
}

func audioModeName(mode byte) string {
	if name, ok := audioModes[mode]; ok {
		return name
	}
	return "その他"
}

var samplingRates = [8]int{0, 16000, 22050, 24000, 0, 32000, 44100, 48000}

var languageNames = map[string]string{
	"jpn": "日本語",
	"eng": "英語",
	"deu": "ドイツ語",
	"fra": "フランス語",
	"ita": "イタリア語",
	"rus": "ロシア語",
	"zho": "中国語",
	"kor": "韓国語",
	"spa": "スペイン語",
	"por": "ポルトガル語",
	"etc": "外国語",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
