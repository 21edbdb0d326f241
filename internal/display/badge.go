// Package display turns raw record values into what a screen shows: localized
// badge labels, stock and score classification, currency and date formatting.
package display

// Variant is the visual weight of a badge
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSecondary   Variant = "secondary"
	VariantOutline     Variant = "outline"
	VariantDestructive Variant = "destructive"
)

// Color is the accent of a badge
type Color string

const (
	ColorGray   Color = "gray"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

// Badge is the rendered form of an enumerated value
type Badge struct {
	Label   string
	Variant Variant
	Color   Color
}

// Kind selects which label table a value is looked up in
type Kind string

const (
	KindOrderStatus         Kind = "order_status"
	KindPriority            Kind = "priority"
	KindServiceType         Kind = "service_type"
	KindQuoteStatus         Kind = "quote_status"
	KindInvoiceStatus       Kind = "invoice_status"
	KindPaymentMethod       Kind = "payment_method"
	KindCommunicationStatus Kind = "communication_status"
	KindCommunicationType   Kind = "communication_type"
	KindDirection           Kind = "direction"
	KindInventoryStatus     Kind = "inventory_status"
	KindQualityStatus       Kind = "quality_status"
	KindCheckType           Kind = "check_type"
	KindTimeEntryStatus     Kind = "time_entry_status"
	KindActivityType        Kind = "activity_type"
	KindCustomerType        Kind = "customer_type"
	KindContactMethod       Kind = "contact_method"
)

var badges = map[Kind]map[string]Badge{
	KindOrderStatus: {
		"pending":     {"Ausstehend", VariantDefault, ColorYellow},
		"confirmed":   {"Bestätigt", VariantDefault, ColorBlue},
		"in_progress": {"In Bearbeitung", VariantDefault, ColorOrange},
		"completed":   {"Abgeschlossen", VariantDefault, ColorGreen},
		"cancelled":   {"Storniert", VariantDefault, ColorRed},
	},
	KindPriority: {
		"urgent": {"Dringend", VariantDefault, ColorRed},
		"high":   {"Hoch", VariantDefault, ColorOrange},
		"medium": {"Mittel", VariantDefault, ColorYellow},
		"normal": {"Normal", VariantDefault, ColorBlue},
		"low":    {"Niedrig", VariantDefault, ColorGray},
	},
	KindServiceType: {
		"building_cleaning":  {"Gebäudereinigung", VariantSecondary, ColorBlue},
		"garden_maintenance": {"Gartenpflege", VariantSecondary, ColorGreen},
		"winter_service":     {"Winterdienst", VariantSecondary, ColorGray},
	},
	KindQuoteStatus: {
		"draft":    {"Entwurf", VariantDefault, ColorGray},
		"sent":     {"Versendet", VariantDefault, ColorBlue},
		"accepted": {"Angenommen", VariantDefault, ColorGreen},
		"rejected": {"Abgelehnt", VariantDefault, ColorRed},
		"expired":  {"Abgelaufen", VariantDefault, ColorOrange},
	},
	KindInvoiceStatus: {
		"draft":     {"Entwurf", VariantOutline, ColorGray},
		"sent":      {"Gesendet", VariantSecondary, ColorBlue},
		"paid":      {"Bezahlt", VariantDefault, ColorGreen},
		"overdue":   {"Überfällig", VariantDestructive, ColorRed},
		"cancelled": {"Storniert", VariantDestructive, ColorRed},
	},
	KindPaymentMethod: {
		"bank_transfer": {"Überweisung", VariantOutline, ColorGray},
		"cash":          {"Bar", VariantOutline, ColorGray},
		"card":          {"Karte", VariantOutline, ColorGray},
		"paypal":        {"PayPal", VariantOutline, ColorGray},
	},
	KindCommunicationStatus: {
		"pending":            {"Ausstehend", VariantDefault, ColorYellow},
		"completed":          {"Abgeschlossen", VariantDefault, ColorGreen},
		"follow_up_required": {"Nachfassen erforderlich", VariantDefault, ColorRed},
	},
	KindCommunicationType: {
		"email":    {"E-Mail", VariantOutline, ColorBlue},
		"phone":    {"Telefon", VariantOutline, ColorGreen},
		"whatsapp": {"WhatsApp", VariantOutline, ColorGreen},
		"sms":      {"SMS", VariantOutline, ColorGray},
		"meeting":  {"Termin", VariantOutline, ColorOrange},
		"note":     {"Notiz", VariantOutline, ColorGray},
	},
	KindDirection: {
		"inbound":  {"Eingehend", VariantSecondary, ColorBlue},
		"outbound": {"Ausgehend", VariantSecondary, ColorGray},
	},
	KindInventoryStatus: {
		"active":       {"Aktiv", VariantDefault, ColorGreen},
		"inactive":     {"Inaktiv", VariantOutline, ColorGray},
		"discontinued": {"Eingestellt", VariantDestructive, ColorRed},
	},
	KindQualityStatus: {
		"pending":     {"Ausstehend", VariantOutline, ColorGray},
		"in_progress": {"In Bearbeitung", VariantSecondary, ColorBlue},
		"completed":   {"Abgeschlossen", VariantDefault, ColorGreen},
		"failed":      {"Fehlgeschlagen", VariantDestructive, ColorRed},
	},
	KindCheckType: {
		"cleaning":    {"Reinigung", VariantOutline, ColorGray},
		"maintenance": {"Wartung", VariantOutline, ColorGray},
		"inspection":  {"Inspektion", VariantOutline, ColorGray},
		"final":       {"Endprüfung", VariantOutline, ColorGray},
	},
	KindTimeEntryStatus: {
		"active":    {"Aktiv", VariantDefault, ColorGreen},
		"completed": {"Abgeschlossen", VariantSecondary, ColorBlue},
		"paused":    {"Pausiert", VariantOutline, ColorYellow},
		"cancelled": {"Storniert", VariantDestructive, ColorRed},
	},
	KindActivityType: {
		"work":    {"Arbeit", VariantDefault, ColorBlue},
		"break":   {"Pause", VariantOutline, ColorGray},
		"meeting": {"Meeting", VariantSecondary, ColorOrange},
		"travel":  {"Reise", VariantOutline, ColorGray},
	},
	KindCustomerType: {
		"private":  {"Privat", VariantOutline, ColorGray},
		"business": {"Geschäft", VariantSecondary, ColorBlue},
	},
	KindContactMethod: {
		"email":    {"E-Mail", VariantOutline, ColorGray},
		"phone":    {"Telefon", VariantOutline, ColorGray},
		"mobile":   {"Mobil", VariantOutline, ColorGray},
		"whatsapp": {"WhatsApp", VariantOutline, ColorGray},
	},
}

// StatusBadge returns the badge for value within kind. Unknown kinds and values
// render as the raw value in an outline gray badge.
func StatusBadge(kind Kind, value string) Badge {
	if b, ok := badges[kind][value]; ok {
		return b
	}
	return Badge{Label: value, Variant: VariantOutline, Color: ColorGray}
}

// Label is shorthand for StatusBadge(kind, value).Label
func Label(kind Kind, value string) string {
	return StatusBadge(kind, value).Label
}

// Option is one selectable value with its localized label
type Option struct {
	Value string
	Label string
}

// Options lists the values of kind in the order given, labelled for display
func Options(kind Kind, values ...string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Value: v, Label: Label(kind, v)})
	}
	return opts
}
