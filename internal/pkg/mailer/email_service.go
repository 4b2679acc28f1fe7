package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendReturnStatusUpdate(toEmail, orderCode, statusLabel, detail string) error
	SendRefundCompleted(toEmail, orderCode string, amount int64) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendReturnStatusUpdate(toEmail, orderCode, statusLabel, detail string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Cập nhật yêu cầu trả hàng - Đơn %s", orderCode))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Đơn hàng %s</h2>
			<p>Yêu cầu trả hàng của bạn vừa được cập nhật:</p>
			<h3 style="color: #007BFF;">%s</h3>
			<p>%s</p>
			<p>Bạn có thể theo dõi tiến trình trong mục Đơn hàng của tôi.</p>
		</div>
	`, orderCode, statusLabel, detail)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send status update to %s: %v\n", toEmail, err)
		return err
	}
	return nil
}

func (s *emailService) SendRefundCompleted(toEmail, orderCode string, amount int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Hoàn tiền thành công - Đơn %s", orderCode))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hoàn tiền thành công</h2>
			<p>Đơn hàng <b>%s</b> đã được hoàn tiền:</p>
			<h1 style="color: #4CAF50;">%d₫</h1>
			<p>Số tiền sẽ về tài khoản của bạn trong 1-3 ngày làm việc.</p>
		</div>
	`, orderCode, amount)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send refund confirmation to %s: %v\n", toEmail, err)
		return err
	}
	return nil
}
