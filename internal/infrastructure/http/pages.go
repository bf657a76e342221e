package httpapi

import (
	"bytes"
	"html/template"
	"net/http"
)

type successPageData struct {
	CustomerEmail string
	Delayed       bool
}

var successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>Payment Success</title>
    <style>
      body { font-family: Arial; text-align: center; padding-top: 50px; background-color: #f8f9fa; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; background: white; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
      .success { color: #4CAF50; font-size: 48px; margin-bottom: 20px; }
      .warning { color: #FF9800; font-size: 14px; margin-top: 20px; }
      .email-info { background-color: #e8f5e9; padding: 15px; border-radius: 5px; margin: 20px 0; color: #2e7d32; }
      .email-icon { font-size: 24px; margin-bottom: 10px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="success">&#10003;</div>
      <h1>Payment Successful!</h1>
      <p>Your payment has been processed successfully.</p>
      <div class="email-info">
        <div class="email-icon">&#9993;</div>
        <h3>Payment Confirmation Sent!</h3>
        <p>A detailed payment confirmation has been sent to your email: {{.CustomerEmail}}</p>
      </div>
      {{if .Delayed}}<p class="warning">Note: There was a delay in updating your invoice status. Please contact support if needed.</p>{{end}}
      <p>Thank you for your payment. You can close this window now.</p>
    </div>
  </body>
</html>
`))

var cancelPage = template.Must(template.New("cancel").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>Payment Cancelled</title>
    <style>
      body { font-family: Arial, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background-color: #f0f0f0; }
      .cancel-container { text-align: center; padding: 40px; background: white; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); max-width: 500px; }
      .cancel-icon { color: #f44336; font-size: 48px; margin-bottom: 20px; }
      h1 { color: #333; margin-bottom: 20px; }
      p { color: #666; margin-bottom: 15px; line-height: 1.5; }
    </style>
  </head>
  <body>
    <div class="cancel-container">
      <div class="cancel-icon">x</div>
      <h1>Payment Cancelled</h1>
      <p>Your payment has been cancelled.</p>
      <p>You can close this window and try again.</p>
    </div>
  </body>
</html>
`))

func (h *CheckoutHandler) render(w http.ResponseWriter, page *template.Template, data any) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		h.Logger.Error("render page failed", map[string]any{"page": page.Name(), "error": err})
		writeText(w, http.StatusInternalServerError, "Error processing payment")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
