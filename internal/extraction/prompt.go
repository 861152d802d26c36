package extraction

// extractionPrompt is the fixed instruction sent alongside the document
// image. The service must answer with a single JSON object and nothing else.
const extractionPrompt = `You are analyzing a receipt or invoice document. Carefully read all text in the image and extract the following information:

1. **Vendor Name**: The merchant, store, or business name printed at the top of the document, usually the largest text or in a header. Examples: "Walmart", "Shell", "Hilton Garden Inn".

2. **Total Amount**: The final total, grand total, or amount due, usually at the bottom, labeled "TOTAL", "Amount Due", "Grand Total", or similar. Extract only the numeric value (e.g., 42.75 for $42.75).

3. **Date**: The transaction, purchase, or invoice date, converted to ISO 8601 format (YYYY-MM-DD). Common printed formats: MM/DD/YYYY, DD/MM/YYYY, or written dates.

4. **Category**: Classify the business into exactly one of: "Dining", "Groceries", "Lodging", "Fuel", "Retail", "Other".

5. **Line Items** (optional): Individual purchased items with their prices, when legible.

Return ONLY valid JSON in this exact format:
{
  "vendor": "Vendor Name",
  "amount": 0.00,
  "date": "YYYY-MM-DD",
  "category": "Other",
  "items": [{"name": "item", "price": 0.00}]
}

Important:
- The vendor must be the actual business name from the document
- The amount must be a number (not a string), representing dollars and cents
- The date must be in YYYY-MM-DD format
- The category must be one of the six values listed above
- Omit "items" if no line items are legible
- If you cannot find a field, use null for that field
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
