package dto

// Embed colors preserved from earlier deployments.
const (
	ColorSuccess = 0x00ff00
	ColorError   = 0xff0000
	ColorInfo    = 0x0099ff
	ColorGold    = 0xffd700
	ColorWarn    = 0xff9900
)

// Payload is a transport-agnostic display message. The chat gateway renders
// it as an embed.
type Payload struct {
	Title  string
	Body   string
	Color  int
	Fields []Field
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

type ShopEntry struct {
	Position    int
	Name        string
	Price       int
	Description string
}

type RankEntry struct {
	UserID string
	Tokens int
}
