// Package notify tells the admins about new registrations, orders and requests.
// Delivery is fire-and-forget: failures are logged and never reach the caller.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"
)

const (
	Registration = "registration"
	Order        = "order"
	Installment  = "installment"
	Lottery      = "lottery"
	CRM          = "crm"
	Cooperation  = "cooperation"
	Digest       = "digest"
)

type Fields map[string]string

type Notifier interface {
	Notify(ctx context.Context, event string, fields Fields)
}

const footer = "\n━━━━━━━━━━━━━━━━━━━━"

var templates = template.Must(template.New("notify").Option("missingkey=zero").Parse(`
{{define "registration"}}👤 ثبت‌نام جدید!

👤 نام: {{.full_name}}
🆔 کاربر: {{.user}}
📞 شماره: {{.phone}}
🏙️ شهر: {{.city}}
📍 منطقه: {{.area}}
📅 تاریخ: {{.date}}{{end}}

{{define "order"}}🛒 سفارش جدید!

📦 محصول: {{.product}}
👤 کاربر: {{.user}}
💰 قیمت نهایی: {{.price}} تومان
💳 نوع پرداخت: {{.payment}}
🎫 کد معرف: {{if .referral}}{{.referral}}{{else}}ندارد{{end}}
🆔 شماره سفارش: {{.order_id}}
📅 تاریخ: {{.date}}{{end}}

{{define "installment"}}💳 پرداخت قسط جدید!

📦 محصول: {{.product}}
👤 کاربر: {{.user}}
🧾 قسط شماره: {{.slot}}
🆔 شماره سفارش: {{.order_id}}
📅 تاریخ: {{.date}}{{end}}

{{define "lottery"}}🎲 شرکت جدید در قرعه کشی!

🎯 قرعه کشی: {{.lottery}}
👤 کاربر: {{.user}}
📞 شماره: {{.phone}}
📅 تاریخ: {{.date}}{{end}}

{{define "crm"}}💬 درخواست مشاوره جدید!

👤 کاربر: {{.user}}
📞 شماره: {{.phone}}
📅 تاریخ: {{.date}}

لطفاً در اسرع وقت با این کاربر تماس بگیرید.{{end}}

{{define "cooperation"}}🤝 درخواست همکاری جدید!

👤 کاربر: {{.user}}
📞 شماره: {{.phone}}
🏙️ شهر: {{.city}}
📅 تاریخ: {{.date}}

📝 رزومه:
{{.resume}}{{end}}

{{define "digest"}}📊 گزارش روزانه

🛒 سفارش‌های در انتظار: {{.pending_orders}}
💳 اقساط پرداخت‌نشده: {{.unpaid_slots}}
💬 مشاوره‌های تماس‌گرفته‌نشده: {{.open_crm}}
🤝 درخواست‌های همکاری در انتظار: {{.pending_cooperation}}
👥 کاربران تأیید‌شده: {{.approved_users}}
📅 تاریخ: {{.date}}{{end}}
`))

// Render fills the admin message for event. A missing "date" field is set to now.
func Render(event string, fields Fields) (string, error) {
	data := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		data[k] = v
	}
	if _, ok := data["date"]; !ok {
		data["date"] = time.Now().Format("2006/01/02 15:04")
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, event, data); err != nil {
		return "", fmt.Errorf("render %s: %w", event, err)
	}
	return buf.String() + footer, nil
}

// Multi fans an event out to every notifier.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event string, fields Fields) {
	for _, n := range m {
		n.Notify(ctx, event, fields)
	}
}

type Nop struct{}

func (Nop) Notify(context.Context, string, Fields) {}
