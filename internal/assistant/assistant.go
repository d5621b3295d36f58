// Package assistant answers inventory questions from a fixed script.
package assistant

import (
	"strings"

	"stockdesk/internal/auth"
)

type Category string

const (
	CategoryInventory Category = "inventory"
	CategorySales     Category = "sales"
	CategoryReports   Category = "reports"
	CategoryGeneral   Category = "general"
)

type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Category Category `json:"category"`
	Response string   `json:"-"`
}

type Reply struct {
	Text     string `json:"text"`
	Question string `json:"matched_question,omitempty"` // ID of a predefined question
}

const (
	Welcome = "Hello! I'm your inventory management assistant. I can help you with questions about managing your stock, " +
		"processing sales, generating reports, and using the system features. Feel free to ask me anything or select " +
		"from the common questions below."

	fallback = "I'm here to help with your inventory management system! I can assist with:\n\n" +
		"• Product and inventory management\n• Sales and purchase transactions\n• Reports and analytics\n" +
		"• User management\n• System features and tools\n\n" +
		"Please feel free to ask about any specific feature or select from the common questions above."

	maxMessageLen = 2000
)

var questions = []Question{
	{
		ID: "1", Category: CategoryInventory,
		Question: "How do I add a new product to inventory?",
		Response: "To add a new product to your inventory:\n\n1. Navigate to Inventory → Products\n" +
			"2. Click the \"Add Product\" button\n3. Fill in the product details:\n   - Product name\n   - Price\n" +
			"   - Stock quantity\n   - Category and Brand\n4. Click \"Save\" to add the product\n\n" +
			"The product will immediately appear in your inventory list and be available for sales transactions.",
	},
	{
		ID: "2", Category: CategoryInventory,
		Question: "How can I check low stock items?",
		Response: "You can check low stock items in several ways:\n\n" +
			"1. **Dashboard**: View the \"Low Stock Items\" section on your main dashboard\n" +
			"2. **Inventory Page**: Go to Inventory → Products and filter for low stock\n" +
			"3. **Reports**: Check the Reports section for detailed stock analysis\n\n" +
			"An item counts as low stock when its quantity falls to or below its minimum threshold. " +
			"You can set a custom threshold for each product.",
	},
	{
		ID: "3", Category: CategorySales,
		Question: "How do I process a sale transaction?",
		Response: "To process a sale transaction:\n\n1. Go to Transactions → Sales\n2. Click \"New Sale\" button\n" +
			"3. Add customer information\n4. Select a product from your inventory\n5. Enter the quantity\n" +
			"6. Review the total amount\n7. Complete the transaction\n\n" +
			"The system automatically updates your inventory levels.",
	},
	{
		ID: "4", Category: CategoryReports,
		Question: "How can I generate sales reports?",
		Response: "To generate sales reports:\n\n1. Navigate to the Reports section\n2. Select the type of report you need:\n" +
			"   - Daily/Weekly/Monthly sales\n   - Product performance\n   - Category analysis\n" +
			"3. Choose your date range\n4. Apply any filters (product, category, etc.)\n5. Click \"Generate Report\"",
	},
	{
		ID: "5", Category: CategoryGeneral,
		Question: "What user roles are available in the system?",
		Response: "The system supports three user roles:\n\n**Admin**: Full access to all features including:\n" +
			"- User management\n- System settings\n- All inventory operations\n- Financial reports\n\n" +
			"**Assistant**: Limited access including:\n- Inventory management\n- Sales processing\n- Basic reports\n\n" +
			"**Cashier**: Basic access for:\n- Processing sales\n- Viewing product information\n- Basic transaction reports\n\n" +
			"Role permissions ensure data security and appropriate access levels for different team members.",
	},
	{
		ID: "6", Category: CategoryInventory,
		Question: "How do I set up low stock alerts?",
		Response: "To set up low stock alerts:\n\n1. Go to Inventory → Products\n2. Select a product to edit\n" +
			"3. Set the \"Minimum Stock Threshold\"\n\n" +
			"The dashboard lists every product whose stock falls to or below its threshold.",
	},
	{
		ID: "7", Category: CategorySales,
		Question: "How can I track vendor purchases?",
		Response: "To track vendor purchases:\n\n1. Go to Partners → Vendors to manage vendor information\n" +
			"2. Navigate to Transactions → Purchases\n3. Click \"New Purchase\" to record a purchase\n" +
			"4. Select the vendor\n5. Add the purchased item and quantity\n6. Enter the purchase cost\n" +
			"7. Save the transaction, then mark it received when the goods arrive\n\n" +
			"Receiving a purchase adds its quantity to stock.",
	},
	{
		ID: "8", Category: CategoryGeneral,
		Question: "How do I use the barcode generator?",
		Response: "To use the barcode generator:\n\n1. Go to Tools → Barcode Generator\n" +
			"2. Enter the product ID or barcode value\n3. Select barcode format (CODE128, EAN13, UPC, EAN8)\n" +
			"4. Adjust width and height settings\n5. Choose whether to display the value below the barcode\n" +
			"6. Click \"Generate\"\n7. Download the PNG or print it directly\n\n" +
			"You can generate multiple labels at once by setting the quantity.",
	},
}

type keywordGroup struct {
	words    []string
	response string
}

var keywordGroups = []keywordGroup{
	{
		words: []string{"product", "inventory", "stock"},
		response: "For inventory management, you can:\n\n• Add new products via Inventory → Products\n" +
			"• Monitor stock levels on your dashboard\n• Set up low stock alerts\n• Track product movements\n\n" +
			"Would you like specific guidance on any of these features?",
	},
	{
		words: []string{"sale", "transaction", "customer"},
		response: "For sales management, you can:\n\n• Process new sales via Transactions → Sales\n" +
			"• View sales history and analytics\n• Manage customer information\n• Generate sales reports\n\n" +
			"Let me know if you need help with any specific sales feature!",
	},
	{
		words: []string{"report", "analytics", "chart"},
		response: "The Reports section offers comprehensive analytics:\n\n• Sales performance reports\n" +
			"• Inventory analysis\n• Product category insights\n• Financial summaries\n\n" +
			"What type of report are you looking for?",
	},
	{
		words: []string{"user", "role", "permission"},
		response: "User management features include:\n\n• Three role types: Admin, Assistant, Cashier\n" +
			"• Role-based permissions\n• User activity tracking\n• Secure authentication\n\n" +
			"Admins can review user accounts in the Settings section. What specific user management task do you need help with?",
	},
	{
		words: []string{"barcode", "scan", "label"},
		response: "The barcode system allows you to:\n\n• Generate custom barcodes for products\n• Print barcode labels\n" +
			"• Support multiple barcode formats\n\n" +
			"Access the barcode generator in Tools → Barcode Generator. Need help with barcode setup?",
	},
}

// Questions returns the predefined questions in display order.
func Questions() []Question {
	return append([]Question(nil), questions...)
}

func leadingWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

// Answer picks the canned reply for a user message.
func Answer(message string) (Reply, error) {
	text := strings.TrimSpace(message)
	if text == "" || len(text) > maxMessageLen {
		verr := &auth.ValidationError{}
		if text == "" {
			verr.Add("text", "message is empty")
		} else {
			verr.Add("text", "message is too long")
		}
		return Reply{}, verr
	}
	lower := strings.ToLower(text)

	// whole-question matches win over the looser leading-words match
	for _, q := range questions {
		if strings.Contains(strings.ToLower(q.Question), lower) {
			return Reply{Text: q.Response, Question: q.ID}, nil
		}
	}
	for _, q := range questions {
		if strings.Contains(lower, leadingWords(strings.ToLower(q.Question), 3)) {
			return Reply{Text: q.Response, Question: q.ID}, nil
		}
	}

	for _, g := range keywordGroups {
		for _, w := range g.words {
			if strings.Contains(lower, w) {
				return Reply{Text: g.response}, nil
			}
		}
	}
	return Reply{Text: fallback}, nil
}
