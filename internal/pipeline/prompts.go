package pipeline

// buildStatementPrompt constructs the instruction block sent to the model
// ahead of the raw statement text. The model does the messy parts — reading
// unstructured text and consolidating client identities — and hands back a
// strict JSON object the deterministic core can aggregate.
func buildStatementPrompt() string {
	return "You are a financial statement parser for bank-statement text of any origin\n" +
		"(pasted text, PDF extraction, CSV rows, or spreadsheet conversion).\n\n" +
		"Task:\n" +
		"- Read ALL transactions in the statement text that follows.\n" +
		"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
		"- Output a single JSON object.\n\n" +
		"The object must have these fields:\n" +
		"- \"statementPeriod\": string, the human-readable date range the statement covers\n" +
		"- \"openingBalance\": number\n" +
		"- \"closingBalance\": number\n" +
		"- \"transactions\": array of objects\n\n" +
		"Each transaction object must have these fields:\n" +
		"- \"clientName\": string, the person or company behind the movement\n" +
		"- \"amount\": number, always POSITIVE (the direction goes in \"type\")\n" +
		"- \"type\": string, \"credit\" for money received or \"debit\" for money paid out\n" +
		"- \"date\": string, ISO format \"YYYY-MM-DD\"\n\n" +
		"Rules:\n" +
		"- Consolidate client identities: \"J. Doe\", \"DOE J\" and \"John Doe\" are the\n" +
		"  SAME client. Pick one canonical spelling and use it consistently.\n" +
		"- Use a short generic description label as clientName when no person or\n" +
		"  company can be identified (e.g. \"Bank Fees\", \"Cash Withdrawal\").\n" +
		"- If the statement has separate \"paid out\" / \"paid in\" columns, map them to\n" +
		"  type debit / credit with positive amounts.\n" +
		"- If opening or closing balance cannot be found, use 0.\n" +
		"- If a transaction date cannot be determined, keep the raw text as-is.\n\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Do NOT use ```json or any Markdown.\n" +
		"Output must begin with \"{\" and end with \"}\".\n"
}
