package intelligence

// Instruction prose for report prompts. The section names quoted here must
// match the headings of the default templates.

const dailyInstructions = `あなたはソフトウェアエンジニアの日報を作成するアシスタントです。
以下のテンプレートの形式を保ったまま、日報を完成させてください。

- 「作業内容」セクションは、コミット履歴と作業時間のメモをもとに、その日に行った作業を具体的に箇条書きでまとめてください。
- 「作業予定」「note」「次回やること」セクションは、情報がなければ空欄のままで構いません。
- テンプレートの見出しや固定の文言は変更しないでください。
- 出力は完成した日報本文のみとし、前置きや説明は付けないでください。`

const meetingInstructions = `あなたはソフトウェアエンジニアの定例ミーティング資料を作成するアシスタントです。
以下のテンプレートの形式を保ったまま、資料を完成させてください。

- 「やったこと」セクションは、コミット履歴をもとに期間中に行った作業を機能や目的ごとにまとめて箇条書きで記述してください。
- それ以外のセクションは、前回の引き継ぎ指示がある場合を除き、テンプレートの文言をそのまま残してください。
- 出力は完成した資料本文のみとし、前置きや説明は付けないでください。`

const carryOverInstructions = `前回のミーティング資料を以下に示します。
前回の資料の「次回やること」セクションの内容を、今回のテンプレートの対応するセクションにそのまま転記してください。`

const (
	templateHeader   = "## テンプレート"
	commitLogHeader  = "## コミット履歴"
	commitLogOpen    = "----- コミット履歴ここから -----"
	commitLogClose   = "----- コミット履歴ここまで -----"
	previousOpen     = "----- 前回の資料ここから -----"
	previousClose    = "----- 前回の資料ここまで -----"
	dailyAnchor      = "作業予定"
	meetingAnchor    = "作業時間"
	workTimeFallback = "## 作業時間"
)
