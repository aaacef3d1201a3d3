package arib

// gaiji maps ARIB additional-symbol code points (rows 85..94 of the kanji
// set, keyed by the two raw 7-bit bytes) to UTF-8 text. Only the symbols
// that actually appear in event information are carried; everything else
// falls back to GETA MARK.
var gaiji = map[uint16]string{
	// Row 90: units and composites.
	0x7a21: "→", 0x7a22: "←", 0x7a23: "↑", 0x7a24: "↓",
	0x7a25: "●", 0x7a26: "○", 0x7a27: "年", 0x7a28: "月",
	0x7a29: "日", 0x7a2a: "円", 0x7a2b: "㎡", 0x7a2c: "㎥",
	0x7a2d: "㎝", 0x7a2e: "㎠", 0x7a2f: "㎤",

	// Row 93: squared broadcast marks (service/format flags).
	0x7d21: "\U0001F210", // 手
	0x7d22: "\U0001F211", // 字
	0x7d23: "\U0001F212", // 双
	0x7d24: "\U0001F213", // デ
	0x7d25: "\U0001F142", // S
	0x7d26: "\U0001F214", // 二
	0x7d27: "\U0001F215", // 多
	0x7d28: "\U0001F216", // 解
	0x7d29: "\U0001F14D", // SS
	0x7d2a: "\U0001F131", // B
	0x7d2b: "\U0001F13D", // N
	0x7d2e: "\U0001F217", // 天
	0x7d2f: "\U0001F218", // 交
	0x7d30: "\U0001F219", // 映
	0x7d31: "\U0001F21A", // 無
	0x7d32: "\U0001F21B", // 料
	0x7d35: "\U0001F21C", // 前
	0x7d36: "\U0001F21D", // 後
	0x7d37: "\U0001F21E", // 再
	0x7d38: "\U0001F21F", // 新
	0x7d39: "\U0001F220", // 初
	0x7d3a: "\U0001F221", // 終
	0x7d3b: "\U0001F222", // 生
	0x7d3c: "\U0001F223", // 販
	0x7d3d: "\U0001F224", // 声
	0x7d3e: "\U0001F225", // 吹
	0x7d3f: "\U0001F14E", // PPV

	// Row 94: squared format marks.
	0x7e21: "\U0001F14A", // HV
	0x7e22: "\U0001F14C", // SD
	0x7e23: "\U0001F13F", // P
	0x7e24: "\U0001F146", // W
	0x7e25: "\U0001F14B", // MV
	0x7e26: "\U0001F200", // ほか
}
