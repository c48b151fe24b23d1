package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidInterval 结束时间必须严格晚于开始时间
var ErrInvalidInterval = errors.New("结束时间必须晚于开始时间")

// ── ClockTime：一天内的时刻（秒精度） ──

// ClockTime 自零点起的秒数，取值 [0, 86400]，86400 即 24:00:00。
// 对应 PostgreSQL TIME 类型，实现 GORM Scanner/Valuer 接口。
type ClockTime int

// EndOfDay 24:00:00，仅允许作为结束时间
const EndOfDay ClockTime = 24 * 60 * 60

// NewClockTime 由时分秒构造 ClockTime
func NewClockTime(hour, minute, second int) ClockTime {
	return ClockTime(hour*3600 + minute*60 + second)
}

// ParseClockTime 解析 "HH:MM" 或 "HH:MM:SS"。
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("时间格式无效 %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("时间格式无效 %q", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("时间格式无效 %q", s)
		}
		nums[i] = n
	}
	h, m, sec := nums[0], nums[1], nums[2]
	if m > 59 || sec > 59 || h > 24 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, fmt.Errorf("时间超出范围 %q", s)
	}
	return NewClockTime(h, m, sec), nil
}

// Add 加上一段时长；结果可能超过 EndOfDay，由调用方判断
func (t ClockTime) Add(d time.Duration) ClockTime {
	return t + ClockTime(d/time.Second)
}

// String 格式化为 "HH:MM:SS"
func (t ClockTime) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// Scan 解析 PostgreSQL 返回的 TIME 值。
func (t *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case time.Time:
		*t = NewClockTime(v.Hour(), v.Minute(), v.Second())
		return nil
	default:
		return fmt.Errorf("ClockTime.Scan: unsupported type %T", src)
	}
}

func (t *ClockTime) scanString(s string) error {
	// 驱动可能返回 "09:00:00.000000"
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	ct, err := ParseClockTime(s)
	if err != nil {
		return fmt.Errorf("ClockTime.Scan: %w", err)
	}
	*t = ct
	return nil
}

// Value 序列化为 "HH:MM:SS" 文本。
func (t ClockTime) Value() (driver.Value, error) {
	return t.String(), nil
}

// ── 学期 ──

// Term 学期标识（学期 + 学年），不同学期的安排互不冲突
type Term struct {
	Semester     string `json:"semester"`
	AcademicYear string `json:"academic_year"`
}

// ── 时间区间 ──

// TimeInterval 某学期某天内的半开区间 [Start, End)
type TimeInterval struct {
	Day   string
	Start ClockTime
	End   ClockTime
	Term  Term
}

// Validate 校验 End > Start
func (iv TimeInterval) Validate() error {
	if iv.End <= iv.Start {
		return ErrInvalidInterval
	}
	return nil
}

// Overlaps 半开区间重叠判断：首尾相接不算重叠。
// 只比较时刻，日期与学期的匹配由调用方保证。
// 冲突查询的 SQL（start_time < :end AND end_time > :start）与数据库排他约束
// 的 '[)' 区间均为同一语义。
func Overlaps(a, b TimeInterval) bool {
	return a.Start < b.End && a.End > b.Start
}

// SameSlot 判断两个区间是否位于同一学期的同一天
func SameSlot(a, b TimeInterval) bool {
	return a.Day == b.Day && a.Term == b.Term
}

// Conflicts 同一天、同一学期且时间重叠
func Conflicts(a, b TimeInterval) bool {
	return SameSlot(a, b) && Overlaps(a, b)
}

// ── 星期标签 ──

// Weekdays 周一至周日的规范标签，按一周顺序排列
var Weekdays = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

var weekdayAliases = map[string]string{
	"MON": "MONDAY", "TUE": "TUESDAY", "WED": "WEDNESDAY", "THU": "THURSDAY",
	"FRI": "FRIDAY", "SAT": "SATURDAY", "SUN": "SUNDAY",
}

// NormalizeDay 规范化日期标签：英文星期名（全称或三字母缩写，不区分大小写）
// 统一为大写全称，其余自由文本仅去除首尾空白。
func NormalizeDay(day string) string {
	trimmed := strings.TrimSpace(day)
	upper := strings.ToUpper(trimmed)
	if full, ok := weekdayAliases[upper]; ok {
		return full
	}
	for _, full := range Weekdays {
		if upper == full {
			return full
		}
	}
	return trimmed
}
