package sentence

// pattern is one sentence shape: the Japanese text embeds the word's
// kanji, the romanized reading embeds the word's reading, and the
// English gloss embeds the word's meaning. Each part is a Sprintf
// layout with exactly one %s slot.
type pattern struct {
	ja    string
	roman string
	en    string
}

// keywordGroup routes a word to topic templates when its meaning
// contains any of the keywords. Checked before part-of-speech routing,
// same precedence as topic matching in the display layer.
type keywordGroup struct {
	keywords []string
	patterns []pattern
}

var keywordGroups = []keywordGroup{
	{
		keywords: []string{"study", "learn", "practice", "education"},
		patterns: []pattern{
			{"毎日%sをします。", "Mainichi %s wo shimasu.", "I %s every day."},
			{"%sは大切です。", "%s wa taisetsu desu.", "%s is important."},
			{"一緒に%sしましょう。", "Issho ni %s shimashou.", "Let's %s together."},
			{"%sが好きです。", "%s ga suki desu.", "I like %s."},
		},
	},
	{
		keywords: []string{"school", "place", "building", "room", "house", "shop", "store"},
		patterns: []pattern{
			{"私は%sに行きます。", "Watashi wa %s ni ikimasu.", "I go to the %s."},
			{"%sはどこですか？", "%s wa doko desu ka?", "Where is the %s?"},
			{"この%sは大きいです。", "Kono %s wa ookii desu.", "This %s is big."},
			{"新しい%sです。", "Atarashii %s desu.", "It's a new %s."},
		},
	},
	{
		keywords: []string{"food", "eat", "drink", "meal", "rice", "bread", "meat", "vegetable"},
		patterns: []pattern{
			{"%sを食べます。", "%s wo tabemasu.", "I eat %s."},
			{"%sはおいしいです。", "%s wa oishii desu.", "%s is delicious."},
			{"私は%sが好きです。", "Watashi wa %s ga suki desu.", "I like %s."},
			{"%sを作ります。", "%s wo tsukurimasu.", "I make %s."},
		},
	},
	{
		keywords: []string{"person", "people", "friend", "family", "teacher", "student", "mother", "father"},
		patterns: []pattern{
			{"あの%sは誰ですか？", "Ano %s wa dare desu ka?", "Who is that %s?"},
			{"%sと話します。", "%s to hanashimasu.", "I talk with the %s."},
			{"優しい%sです。", "Yasashii %s desu.", "They are a kind %s."},
			{"私の%sです。", "Watashi no %s desu.", "It's my %s."},
		},
	},
	{
		keywords: []string{"time", "day", "year", "month", "week", "morning", "evening", "night"},
		patterns: []pattern{
			{"%sはいつですか？", "%s wa itsu desu ka?", "When is %s?"},
			{"毎%sします。", "Mai %s shimasu.", "I do it every %s."},
			{"この%sは忙しいです。", "Kono %s wa isogashii desu.", "This %s is busy."},
			{"%sになりました。", "%s ni narimashita.", "It became %s."},
		},
	},
	{
		keywords: []string{"book", "pen", "paper", "computer", "phone", "car", "train", "bag"},
		patterns: []pattern{
			{"新しい%sを買いました。", "Atarashii %s wo kaimashita.", "I bought a new %s."},
			{"%sはどこにありますか？", "%s wa doko ni arimasu ka?", "Where is the %s?"},
			{"この%sは便利です。", "Kono %s wa benri desu.", "This %s is convenient."},
			{"%sを使います。", "%s wo tsukai masu.", "I use the %s."},
		},
	},
}

// verbPatterns apply when morphological analysis classifies the word
// as a verb (動詞).
var verbPatterns = []pattern{
	{"私は%sます。", "Watashi wa %smasu.", "I %s."},
	{"%sましょう。", "%smashou.", "Let's %s."},
	{"%sたいです。", "%stai desu.", "I want to %s."},
	{"%sることができます。", "%sru koto ga dekimasu.", "I can %s."},
}

// adjectivePatterns apply to words classified as adjectives (形容詞).
var adjectivePatterns = []pattern{
	{"とても%sです。", "Totemo %s desu.", "It is very %s."},
	{"この%sところが好きです。", "Kono %s tokoro ga suki desu.", "I like this %s part."},
	{"%sですね。", "%s desu ne.", "It's %s, isn't it?"},
}

// generalPatterns are the default shapes for nouns and anything
// unclassified.
var generalPatterns = []pattern{
	{"これは%sです。", "Kore wa %s desu.", "This is %s."},
	{"%sについて話しましょう。", "%s ni tsuite hanashimashou.", "Let's talk about %s."},
	{"私は%sが必要です。", "Watashi wa %s ga hitsuyou desu.", "I need %s."},
	{"%sはとても便利です。", "%s wa totemo benri desu.", "%s is very useful."},
	{"%sが分かりません。", "%s ga wakarimasen.", "I don't understand %s."},
}

// basicPatterns are the last-resort shapes used when everything else
// has failed; they work for any word.
var basicPatterns = []pattern{
	{"%sは大切です。", "%s wa taisetsu desu.", "%s is important."},
	{"これは%sです。", "Kore wa %s desu.", "This is %s."},
	{"%sについて勉強します。", "%s ni tsuite benkyou shimasu.", "I study about %s."},
}
