package domain

// RuleTemplate is a ready-made rule offered during onboarding
type RuleTemplate struct {
	Key     string       `json:"key"`
	Name    string       `json:"name"`
	Trigger Trigger      `json:"trigger"`
	Action  ActionType   `json:"action"`
	Config  ActionConfig `json:"config"`
}

var ruleTemplates = []RuleTemplate{
	{
		Key:     "booking_reminder_email",
		Name:    "Booking reminder (email)",
		Trigger: TriggerBookingReminder,
		Action:  ActionSendEmail,
		Config: EmailConfig{
			Subject: "Reminder: your {{bookingType}} on {{date}}",
			Body:    "Hi {{contactName}}, this is a reminder of your {{bookingType}} on {{date}} at {{time}}.",
		},
	},
	{
		Key:     "booking_reminder_sms",
		Name:    "Booking reminder (SMS)",
		Trigger: TriggerBookingReminder,
		Action:  ActionSendSMS,
		Config: SmsConfig{
			Message: "Hi {{contactName}}, reminder: {{bookingType}} on {{date}} at {{time}}.",
		},
	},
	{
		Key:     "booking_created_email",
		Name:    "Booking confirmation (email)",
		Trigger: TriggerBookingCreated,
		Action:  ActionSendEmail,
		Config: EmailConfig{
			Subject: "Your {{bookingType}} is booked",
			Body:    "Hi {{contactName}}, your {{bookingType}} is booked for {{date}} at {{time}}.",
		},
	},
	{
		Key:     "booking_completed_email",
		Name:    "Thank-you after visit (email)",
		Trigger: TriggerBookingCompleted,
		Action:  ActionSendEmail,
		Config: EmailConfig{
			Subject: "Thanks for visiting",
			Body:    "Hi {{contactName}}, thank you for your {{bookingType}} today.",
		},
	},
	{
		Key:     "form_pending_email",
		Name:    "Pending form reminder (email)",
		Trigger: TriggerFormPending,
		Action:  ActionSendEmail,
		Config: EmailConfig{
			Subject: "Please complete {{formName}}",
			Body:    "Hi {{contactName}}, please complete {{formName}} before your appointment.",
		},
	},
	{
		Key:     "form_submitted_alert",
		Name:    "Form submitted (alert)",
		Trigger: TriggerFormSubmitted,
		Action:  ActionCreateAlert,
		Config: AlertConfig{
			AlertType: "FORM_SUBMITTED",
			Priority:  PriorityLow,
			Title:     "{{formName}} submitted",
			Message:   "{{contactName}} submitted {{formName}}",
		},
	},
	{
		Key:     "contact_created_alert",
		Name:    "New contact (alert)",
		Trigger: TriggerContactCreated,
		Action:  ActionCreateAlert,
		Config: AlertConfig{
			AlertType: "NEW_CONTACT",
			Priority:  PriorityLow,
			Title:     "New contact: {{contactName}}",
			Message:   "{{contactName}} was added to your contacts",
		},
	},
	{
		Key:     "inventory_low_alert",
		Name:    "Low inventory (alert)",
		Trigger: TriggerInventoryLow,
		Action:  ActionCreateAlert,
		Config: AlertConfig{
			AlertType: AlertTypeLowInventory,
			Priority:  PriorityHigh,
			Title:     "{{itemName}} low",
			Message:   "Only {{quantity}} left (threshold {{threshold}})",
		},
	},
}

// RuleTemplates returns the onboarding catalog
func RuleTemplates() []RuleTemplate {
	out := make([]RuleTemplate, len(ruleTemplates))
	copy(out, ruleTemplates)
	return out
}

// FindRuleTemplate looks up a catalog entry by key
func FindRuleTemplate(key string) (RuleTemplate, bool) {
	for _, t := range ruleTemplates {
		if t.Key == key {
			return t, true
		}
	}
	return RuleTemplate{}, false
}
