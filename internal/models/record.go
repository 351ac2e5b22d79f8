package models

import "time"

// Record categories. Every record row carries exactly one of these tags;
// the tag decides which of the optional columns below are meaningful.
const (
	CategoryMeal        = "meal"
	CategorySleep       = "sleep"
	CategoryExpense     = "expense"
	CategoryMeasurement = "measurement"
	CategoryExercise    = "exercise"
	CategoryMovement    = "movement"
	CategoryInfo        = "info"
)

// Info sub-types and priorities.
const (
	InfoTypeMemo = "memo"
	InfoTypeTodo = "todo"

	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// Record 表示一条生活记录。7 种类别共用一张宽表，未使用的列保持零值。
// Date 是写入时设备本地的日历日（YYYY-MM-DD），不从 RecordTime 推导：
// 深夜 0 点后录入的记录归入新的一天。
type Record struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   uint   `gorm:"index:idx_records_user_date,priority:1;index:idx_records_user_date_cat,priority:1;not null" json:"user_id"`
	Category string `gorm:"size:16;index:idx_records_user_date_cat,priority:3;not null" json:"category"`
	Date     string `gorm:"size:10;index:idx_records_user_date,priority:2;index:idx_records_user_date_cat,priority:2;not null" json:"date"`

	// RecordTime is the display clock time "HH:MM". For sleep records the
	// store normalizes it from WakeTime, for movement from StartTime.
	RecordTime string `gorm:"size:5" json:"record_time"`

	Memo string `gorm:"size:500" json:"memo"`

	// optional capture location
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Address   string   `gorm:"size:255" json:"address"`

	// meal
	MealType       string `gorm:"size:32" json:"meal_type"`
	Calories       *int   `json:"calories,omitempty"`
	MealContent    string `gorm:"size:255" json:"meal_content"`
	IsExternalMeal bool   `json:"is_external_meal"`

	// payment fields shared by meal / expense / movement
	PaymentLocation string `gorm:"size:64" json:"payment_location"`
	Amount          *int64 `json:"amount,omitempty"` // 円
	PaymentMethod   string `gorm:"size:32" json:"payment_method"`

	// sleep
	WakeTime  string `gorm:"size:5" json:"wake_time"`
	SleepTime string `gorm:"size:5" json:"sleep_time"`

	// expense
	ExpenseContent string `gorm:"size:255" json:"expense_content"`

	// measurement
	Weight            *float64 `json:"weight,omitempty"`        // kg
	BodyFatRate       *float64 `json:"body_fat_rate,omitempty"` // %
	BloodPressureHigh *int     `json:"blood_pressure_high,omitempty"`
	BloodPressureLow  *int     `json:"blood_pressure_low,omitempty"`
	WaistSize         *float64 `json:"waist_size,omitempty"` // cm
	Height            *float64 `json:"height,omitempty"`     // cm
	Age               *int     `json:"age,omitempty"`
	Gender            string   `gorm:"size:8" json:"gender"` // male / female

	// exercise
	ExerciseType     string   `gorm:"size:32" json:"exercise_type"`
	ExerciseContent  string   `gorm:"size:255" json:"exercise_content"`
	Duration         *int     `json:"duration,omitempty"` // minutes
	Distance         *float64 `json:"distance,omitempty"` // km
	ExerciseWeight   *float64 `json:"exercise_weight,omitempty"` // 負荷 kg
	Reps             *int     `json:"reps,omitempty"`
	ExerciseLocation string   `gorm:"size:64" json:"exercise_location"`
	MetsValue        *float64 `json:"mets_value,omitempty"`
	CaloriesBurned   *int     `json:"calories_burned,omitempty"`

	// profile snapshot taken when the exercise was entered; the calorie
	// estimate stays stable even if the profile changes later
	UserWeight *float64 `json:"user_weight,omitempty"` // kg
	UserBMR    *float64 `json:"user_bmr,omitempty"`
	UserAge    *int     `json:"user_age,omitempty"`
	UserGender string   `gorm:"size:8" json:"user_gender"`

	// movement
	StartTime       string `gorm:"size:5" json:"start_time"`
	EndTime         string `gorm:"size:5" json:"end_time"`
	FromLocation    string `gorm:"size:64" json:"from_location"`
	ToLocation      string `gorm:"size:64" json:"to_location"`
	TransportMethod string `gorm:"size:32" json:"transport_method"`
	HasPayment      bool   `json:"has_payment"`

	// info (memo / TODO)
	InfoType    string `gorm:"size:8" json:"info_type"`
	Priority    string `gorm:"size:8" json:"priority"`
	InfoContent string `gorm:"size:500" json:"info_content"`
	DueDate     string `gorm:"size:10" json:"due_date"`
	DueTime     string `gorm:"size:5" json:"due_time"`
	IsCompleted bool   `json:"is_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Photos []RecordPhoto `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"photos"`
}

// RecordPhoto is one photo attachment of a record. FileName is the path
// inside the photo storage directory ("{category}-photos/{ts}_{id}.jpg");
// deleting a record must delete the referenced blobs first, best effort.
type RecordPhoto struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	RecordID   string    `gorm:"size:36;index;not null" json:"-"`
	URL        string    `gorm:"size:255" json:"url"`
	FileName   string    `gorm:"size:255" json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// AmountValue returns the payment amount treating nil as 0.
func (r *Record) AmountValue() int64 {
	if r.Amount == nil {
		return 0
	}
	return *r.Amount
}

// CaloriesValue returns meal calories treating nil as 0.
func (r *Record) CaloriesValue() int {
	if r.Calories == nil {
		return 0
	}
	return *r.Calories
}

// CaloriesBurnedValue returns burned calories treating nil as 0.
func (r *Record) CaloriesBurnedValue() int {
	if r.CaloriesBurned == nil {
		return 0
	}
	return *r.CaloriesBurned
}

// DurationValue returns the exercise duration in minutes, nil as 0.
func (r *Record) DurationValue() int {
	if r.Duration == nil {
		return 0
	}
	return *r.Duration
}
