package repository

import (
	paymentRepo "tutorhive/database/repository/payment"
	sessionRepo "tutorhive/database/repository/session"
	slotRepo "tutorhive/database/repository/slot"
	userRepo "tutorhive/database/repository/user"
)

// Re-export the SlotRepository interface and constructor.
type SlotRepository = slotRepo.SlotRepository

var NewMongoSlotRepo = slotRepo.NewMongoSlotRepo

// Re-export the SessionRepository interface and constructor.
type SessionRepository = sessionRepo.SessionRepository

var NewMongoSessionRepo = sessionRepo.NewMongoSessionRepo

// Re-export the PaymentRecordRepository interface and constructor.
type PaymentRecordRepository = paymentRepo.PaymentRecordRepository

var NewMongoPaymentRepo = paymentRepo.NewMongoPaymentRepo

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewMongoUserRepo = userRepo.NewMongoUserRepo
