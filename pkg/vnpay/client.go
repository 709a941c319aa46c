// Package vnpay 提供 VNPAY 网关签名与回调校验
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidSignature 回调签名校验失败
	ErrInvalidSignature = errors.New("vnpay: invalid signature")
	// ErrInvalidTxnRef 无法解析的交易参考号
	ErrInvalidTxnRef = errors.New("vnpay: invalid txn ref")
)

// 网关返回码
const (
	ResponseCodeSuccess      = "00"
	TransactionStatusSuccess = "00"
)

// IPN 应答码
const (
	RspConfirmSuccess    = "00"
	RspOrderNotFound     = "01"
	RspAlreadyConfirmed  = "02"
	RspInvalidAmount     = "04"
	RspInvalidSignature  = "97"
	RspUnknownError      = "99"
	txnRefPrefix         = "BOOK"
	dateLayout           = "20060102150405"
	secureHashKey        = "vnp_SecureHash"
	secureHashTypeKey    = "vnp_SecureHashType"
	defaultExpireMinutes = 15
)

// Config VNPAY 配置
type Config struct {
	TmnCode       string `mapstructure:"tmn_code"`
	HashSecret    string `mapstructure:"hash_secret"`
	PayURL        string `mapstructure:"pay_url"`
	ReturnURL     string `mapstructure:"return_url"`
	Version       string `mapstructure:"version"`
	Locale        string `mapstructure:"locale"`
	CurrCode      string `mapstructure:"curr_code"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

// Client VNPAY 客户端
type Client struct {
	config *Config
	loc    *time.Location
}

// NewClient 创建 VNPAY 客户端
func NewClient(config *Config) (*Client, error) {
	if config == nil || config.TmnCode == "" || config.HashSecret == "" || config.PayURL == "" {
		return nil, errors.New("vnpay: tmn_code, hash_secret and pay_url are required")
	}

	cfg := *config
	if cfg.Version == "" {
		cfg.Version = "2.1.0"
	}
	if cfg.Locale == "" {
		cfg.Locale = "vn"
	}
	if cfg.CurrCode == "" {
		cfg.CurrCode = "VND"
	}
	if cfg.ExpireMinutes <= 0 {
		cfg.ExpireMinutes = defaultExpireMinutes
	}

	// 网关时间统一为 GMT+7
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		loc = time.FixedZone("ICT", 7*3600)
	}

	return &Client{config: &cfg, loc: loc}, nil
}

// PaymentRequest 支付链接参数
type PaymentRequest struct {
	TxnRef     string
	Amount     float64 // 单位：VND
	OrderInfo  string
	OrderType  string
	IPAddr     string
	CreateDate time.Time
}

// BuildPaymentURL 生成带签名的支付链接
func (c *Client) BuildPaymentURL(req *PaymentRequest) (string, error) {
	if req.TxnRef == "" {
		return "", errors.New("vnpay: txn ref is required")
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("vnpay: invalid amount %v", req.Amount)
	}

	created := req.CreateDate
	if created.IsZero() {
		created = time.Now()
	}
	created = created.In(c.loc)

	orderType := req.OrderType
	if orderType == "" {
		orderType = "other"
	}
	ip := req.IPAddr
	if ip == "" {
		ip = "127.0.0.1"
	}

	params := url.Values{}
	params.Set("vnp_Version", c.config.Version)
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", c.config.TmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(int64(math.Round(req.Amount*100)), 10))
	params.Set("vnp_CurrCode", c.config.CurrCode)
	params.Set("vnp_TxnRef", req.TxnRef)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", orderType)
	params.Set("vnp_Locale", c.config.Locale)
	params.Set("vnp_ReturnUrl", c.config.ReturnURL)
	params.Set("vnp_IpAddr", ip)
	params.Set("vnp_CreateDate", created.Format(dateLayout))
	params.Set("vnp_ExpireDate", created.Add(time.Duration(c.config.ExpireMinutes)*time.Minute).Format(dateLayout))

	signData := canonical(params)
	return c.config.PayURL + "?" + signData + "&" + secureHashKey + "=" + c.sign(signData), nil
}

// ReturnResult 回调解析结果
type ReturnResult struct {
	TxnRef            string
	Amount            float64 // 单位：VND
	ResponseCode      string
	TransactionStatus string
	TransactionNo     string
	BankCode          string
	PayDate           string
	Raw               map[string]string
}

// Success 网关返回码与交易状态均为成功
func (r *ReturnResult) Success() bool {
	return r.ResponseCode == ResponseCodeSuccess && r.TransactionStatus == TransactionStatusSuccess
}

// VerifyReturn 校验回调签名并解析参数，return 与 IPN 共用
func (c *Client) VerifyReturn(query url.Values) (*ReturnResult, error) {
	hash := query.Get(secureHashKey)
	if hash == "" {
		return nil, ErrInvalidSignature
	}

	fields := url.Values{}
	raw := make(map[string]string)
	for k := range query {
		if !strings.HasPrefix(k, "vnp_") || k == secureHashKey || k == secureHashTypeKey {
			continue
		}
		fields.Set(k, query.Get(k))
		raw[k] = query.Get(k)
	}

	expected := c.sign(canonical(fields))
	if !hmac.Equal([]byte(hash), []byte(expected)) {
		return nil, ErrInvalidSignature
	}

	result := &ReturnResult{
		TxnRef:            fields.Get("vnp_TxnRef"),
		ResponseCode:      fields.Get("vnp_ResponseCode"),
		TransactionStatus: fields.Get("vnp_TransactionStatus"),
		TransactionNo:     fields.Get("vnp_TransactionNo"),
		BankCode:          fields.Get("vnp_BankCode"),
		PayDate:           fields.Get("vnp_PayDate"),
		Raw:               raw,
	}
	// 金额无法解析时按 0 处理，由调用方判定金额不符
	if v, err := strconv.ParseInt(fields.Get("vnp_Amount"), 10, 64); err == nil {
		result.Amount = float64(v) / 100
	}
	return result, nil
}

// Sign 对参数签名，用于构造测试回调
func (c *Client) Sign(params url.Values) string {
	return c.sign(canonical(params))
}

func (c *Client) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(c.config.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonical 按键名排序拼接，忽略空值和签名字段
func canonical(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == secureHashKey || k == secureHashTypeKey || params.Get(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params.Get(k)))
	}
	return sb.String()
}

// BuildTxnRef 生成交易参考号 BOOK{bookingID}_{unix}
func BuildTxnRef(bookingID int64, now time.Time) string {
	return fmt.Sprintf("%s%d_%d", txnRefPrefix, bookingID, now.Unix())
}

// ParseTxnRef 从交易参考号解析预订 ID
func ParseTxnRef(ref string) (int64, error) {
	rest, ok := strings.CutPrefix(ref, txnRefPrefix)
	if !ok {
		return 0, ErrInvalidTxnRef
	}
	idPart, tsPart, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, ErrInvalidTxnRef
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidTxnRef
	}
	if ts, err := strconv.ParseInt(tsPart, 10, 64); err != nil || ts <= 0 {
		return 0, ErrInvalidTxnRef
	}
	return id, nil
}

// IPNResponse IPN 应答
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}
