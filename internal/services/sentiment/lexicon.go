package sentiment

// lexEntry carries a word's polarity in [-1,1] and subjectivity in [0,1].
type lexEntry struct {
	polarity     float64
	subjectivity float64
}

// lexicon covers the financial-news vocabulary the scorer recognizes.
// Values follow the usual convention: factual financial terms score low
// subjectivity, evaluative terms score high.
var lexicon = map[string]lexEntry{
	// positive
	"profit":        {0.6, 0.4},
	"profits":       {0.6, 0.4},
	"growth":        {0.5, 0.4},
	"strong":        {0.5, 0.6},
	"record":        {0.4, 0.4},
	"surge":         {0.6, 0.5},
	"surged":        {0.6, 0.5},
	"gain":          {0.5, 0.4},
	"gains":         {0.5, 0.4},
	"rally":         {0.5, 0.5},
	"beat":          {0.5, 0.5},
	"beats":         {0.5, 0.5},
	"exceed":        {0.5, 0.4},
	"exceeds":       {0.5, 0.4},
	"upgrade":       {0.5, 0.4},
	"upgraded":      {0.5, 0.4},
	"success":       {0.6, 0.6},
	"successful":    {0.6, 0.6},
	"expansion":     {0.4, 0.4},
	"award":         {0.5, 0.4},
	"partnership":   {0.4, 0.4},
	"dividend":      {0.4, 0.3},
	"bullish":       {0.6, 0.7},
	"positive":      {0.5, 0.5},
	"outperform":    {0.5, 0.5},
	"excellent":     {0.8, 0.8},
	"impressive":    {0.7, 0.8},
	"soar":          {0.7, 0.6},
	"soared":        {0.7, 0.6},
	"boost":         {0.5, 0.5},
	"boosted":       {0.5, 0.5},
	"innovation":    {0.4, 0.4},
	"opportunity":   {0.4, 0.5},
	"opportunities": {0.4, 0.5},
	"recovery":      {0.4, 0.4},
	"momentum":      {0.3, 0.4},

	// negative
	"loss":          {-0.6, 0.4},
	"losses":        {-0.6, 0.4},
	"decline":       {-0.5, 0.4},
	"declined":      {-0.5, 0.4},
	"fall":          {-0.4, 0.4},
	"fell":          {-0.4, 0.4},
	"drop":          {-0.4, 0.4},
	"dropped":       {-0.4, 0.4},
	"plunge":        {-0.7, 0.5},
	"plunged":       {-0.7, 0.5},
	"crash":         {-0.8, 0.6},
	"crisis":        {-0.7, 0.5},
	"scandal":       {-0.7, 0.6},
	"fraud":         {-0.8, 0.6},
	"bankruptcy":    {-0.8, 0.4},
	"default":       {-0.7, 0.4},
	"debt":          {-0.4, 0.3},
	"downturn":      {-0.5, 0.4},
	"recession":     {-0.6, 0.4},
	"weak":          {-0.5, 0.6},
	"poor":          {-0.6, 0.7},
	"bearish":       {-0.6, 0.7},
	"negative":      {-0.5, 0.5},
	"downgrade":     {-0.5, 0.4},
	"downgraded":    {-0.5, 0.4},
	"miss":          {-0.4, 0.5},
	"missed":        {-0.4, 0.5},
	"penalty":       {-0.5, 0.4},
	"fine":          {-0.4, 0.4},
	"investigation": {-0.5, 0.4},
	"lawsuit":       {-0.5, 0.4},
	"layoffs":       {-0.6, 0.4},
	"suspension":    {-0.5, 0.4},
	"concern":       {-0.4, 0.5},
	"concerns":      {-0.4, 0.5},
	"risk":          {-0.3, 0.4},
	"volatile":      {-0.3, 0.5},
	"uncertainty":   {-0.4, 0.5},
}

// riskKeywords flag downside drivers in a headline.
var riskKeywords = []string{
	"bankruptcy", "default", "debt", "loss", "decline", "downturn", "recession",
	"crisis", "scandal", "investigation", "penalty", "fine", "suspension",
	"delisting", "insolvency", "liquidation", "restructuring", "layoffs",
	"shutdown", "fraud", "corruption", "lawsuit",
}

// opportunityKeywords flag growth drivers.
var opportunityKeywords = []string{
	"growth", "expansion", "profit", "success", "award", "recognition",
	"partnership", "contract", "deal", "investment", "funding", "innovation",
	"technology", "digital", "efficiency", "sustainability", "merger",
	"acquisition", "ipo", "dividend", "revenue", "earnings",
}

// highImpactKeywords mark headlines likely to move the price.
var highImpactKeywords = []string{
	"profit", "loss", "revenue", "earnings", "dividend", "ipo", "merger",
	"acquisition", "bankruptcy", "default", "crisis", "scandal",
}
